// Package lexicon defines the static regular-expression rule tables the
// detection engine scores against. All tables are immutable after process
// start and safe for concurrent reads.
package lexicon

import (
	"regexp"

	"github.com/tetraminz/sales_coach/internal/model"
)

// Rule is one case-insensitive matcher tagged with its category and subtype.
type Rule struct {
	Category model.PatternType
	Subtype  string
	Pattern  *regexp.Regexp
}

// Label is the short category word used in pattern descriptions.
func (r Rule) Label() string {
	switch r.Category {
	case model.PatternObjection:
		return "objection"
	case model.PatternBuyingSignal:
		return "signal"
	case model.PatternPainPoint:
		return "pain"
	default:
		return "pattern"
	}
}

var rules = []Rule{
	// Objections.
	{model.PatternObjection, "budget", re(`\b(too expensive|costs? too much|can't afford|budget|price|expensive)\b`)},
	{model.PatternObjection, "budget", re(`\b(cheaper|less expensive|lower cost|reduce price|discount)\b`)},
	{model.PatternObjection, "budget", re(`\b(roi|return on investment|justify|worth it)\b`)},
	{model.PatternObjection, "timing", re(`\b(not the right time|timing|too busy|later|next quarter|next year)\b`)},
	{model.PatternObjection, "timing", re(`\b(rush|hurry|urgent|immediate|asap)\b`)},
	{model.PatternObjection, "timing", re(`\b(delay|postpone|wait|hold off)\b`)},
	{model.PatternObjection, "authority", re(`\b(need to think|discuss|talk to|check with|get approval|boss|manager)\b`)},
	{model.PatternObjection, "authority", re(`\b(decision maker|authorize|permission|committee|board)\b`)},
	{model.PatternObjection, "authority", re(`\b(consult|review|consider|evaluate)\b`)},
	{model.PatternObjection, "trust", re(`\b(not sure|don't think|not convinced|hesitant|concerned|skeptical)\b`)},
	{model.PatternObjection, "trust", re(`\b(proof|evidence|guarantee|references|testimonials)\b`)},
	{model.PatternObjection, "trust", re(`\b(risk|risky|uncertain|doubt|worry)\b`)},
	{model.PatternObjection, "need", re(`\b(already have|current solution|existing|satisfied with|working fine)\b`)},
	{model.PatternObjection, "need", re(`\b(don't need|unnecessary|overkill|too much)\b`)},
	{model.PatternObjection, "need", re(`\b(different|alternative|other options)\b`)},

	// Buying signals.
	{model.PatternBuyingSignal, "interest", re(`\b(interested|sounds good|that's helpful|I like|we need|we want)\b`)},
	{model.PatternBuyingSignal, "interest", re(`\b(tell me more|learn more|details|information|explain)\b`)},
	{model.PatternBuyingSignal, "interest", re(`\b(impressive|excellent|perfect|exactly|ideal)\b`)},
	{model.PatternBuyingSignal, "urgency", re(`\b(when can|how soon|timeline|start|implement|next steps)\b`)},
	{model.PatternBuyingSignal, "urgency", re(`\b(asap|immediately|urgent|rush|quickly)\b`)},
	{model.PatternBuyingSignal, "urgency", re(`\b(deadline|by when|schedule|calendar)\b`)},
	{model.PatternBuyingSignal, "budget_inquiry", re(`\b(pricing|cost|investment|budget|proposal|quote|price)\b`)},
	{model.PatternBuyingSignal, "budget_inquiry", re(`\b(how much|what does it cost|pricing structure|payment)\b`)},
	{model.PatternBuyingSignal, "budget_inquiry", re(`\b(affordable|reasonable|fair price|value)\b`)},
	{model.PatternBuyingSignal, "evaluation", re(`\b(demo|trial|test|pilot|proof of concept|sample)\b`)},
	{model.PatternBuyingSignal, "evaluation", re(`\b(try it|see it|show me|demonstrate|example)\b`)},
	{model.PatternBuyingSignal, "evaluation", re(`\b(compare|evaluate|assess|review|analyze)\b`)},

	// Pain points.
	{model.PatternPainPoint, "operational", re(`\b(struggling|difficult|problem|issue|challenge|frustrated)\b`)},
	{model.PatternPainPoint, "operational", re(`\b(broken|not working|failing|issues|problems)\b`)},
	{model.PatternPainPoint, "operational", re(`\b(complicated|complex|confusing|hard to use)\b`)},
	{model.PatternPainPoint, "efficiency", re(`\b(manual|time.consuming|inefficient|slow|tedious)\b`)},
	{model.PatternPainPoint, "efficiency", re(`\b(automate|streamline|faster|quicker|efficient)\b`)},
	{model.PatternPainPoint, "efficiency", re(`\b(bottleneck|delay|waiting|stuck)\b`)},
	{model.PatternPainPoint, "quality", re(`\b(errors|mistakes|inaccurate|unreliable|inconsistent)\b`)},
	{model.PatternPainPoint, "quality", re(`\b(quality|accuracy|reliable|consistent|correct)\b`)},
	{model.PatternPainPoint, "quality", re(`\b(wrong|incorrect|bad data|poor quality)\b`)},
	{model.PatternPainPoint, "financial", re(`\b(expensive|costly|waste|losing money|budget constraints)\b`)},
	{model.PatternPainPoint, "financial", re(`\b(save money|reduce costs|cost effective|cheaper)\b`)},
	{model.PatternPainPoint, "financial", re(`\b(revenue|profit|loss|financial impact)\b`)},
}

// Rules returns the full (category, subtype, pattern) table. Callers must
// not mutate the returned slice.
func Rules() []Rule {
	return rules
}

// Speaker cue sets. Rep cues: question phrasing, professional vocabulary,
// closing language, acknowledgment. Prospect cues: pain vocabulary,
// current-state descriptions, objections, interest.
var (
	repCues = []*regexp.Regexp{
		re(`\b(can you|could you|would you|tell me about|walk me through|help me understand|what|how|when|where|why)\b`),
		re(`\b(appreciate|understand|solution|process|workflow|challenge|opportunity|value|benefit)\b`),
		re(`\b(next steps|follow up|schedule|meeting|demo|proposal|contract|agreement)\b`),
		re(`\b(I see|I understand|that makes sense|absolutely|definitely|certainly)\b`),
	}

	prospectCues = []*regexp.Regexp{
		re(`\b(struggling|difficult|problem|issue|challenge|frustrated|concerned|worried)\b`),
		re(`\b(currently|right now|at the moment|we have|we use|we're using|our process)\b`),
		re(`\b(expensive|cost|budget|price|not sure|hesitant|concerned about|worried about)\b`),
		re(`\b(interested|sounds good|that's helpful|I like|we need|we want|when can|how soon)\b`),
	}
)

// RepCues returns the rep-leaning cue patterns.
func RepCues() []*regexp.Regexp { return repCues }

// ProspectCues returns the prospect-leaning cue patterns.
func ProspectCues() []*regexp.Regexp { return prospectCues }

// StrongIndicators are words whose presence raises pattern confidence.
var StrongIndicators = []string{"struggling", "problem", "expensive", "interested", "need"}

// EmotionalWords drive the contextual emotional-indicator patterns.
// NegativeEmotions map to pain points, the rest to buying signals.
var (
	EmotionalWords   = []string{"frustrated", "excited", "worried", "happy", "concerned", "pleased"}
	NegativeEmotions = map[string]bool{"frustrated": true, "worried": true, "concerned": true}
)

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}
