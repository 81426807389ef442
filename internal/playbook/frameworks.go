// Package playbook ranks coaching suggestions from four static sales
// methodology frameworks. Frameworks are pure data: adding one means
// adding an entry here, never adding code.
package playbook

// Technique is one coachable move inside a framework.
type Technique struct {
	Name        string
	Description string
	Questions   []string
	Responses   []string
	Triggers    []string
	Stage       string
}

// Framework is a named sales methodology with its technique templates.
type Framework struct {
	ID          string
	Name        string
	Description string
	Stages      []string
	Techniques  []Technique
}

var frameworks = []Framework{
	{
		ID:          "sandler",
		Name:        "Sandler",
		Description: "Pain-focused selling methodology",
		Stages:      []string{"bonding_rapport", "up_front_contract", "pain", "budget", "decision", "fulfillment", "post_sell"},
		Techniques: []Technique{
			{
				Name:        "Pain Funnel",
				Description: "Systematic approach to uncovering pain",
				Questions: []string{
					"Can you tell me more about that?",
					"How long has this been a problem?",
					"What have you tried to do about it?",
					"How much is this costing you?",
					"What happens if you don't fix this?",
				},
				Responses: []string{
					"That sounds frustrating. Can you help me understand the impact?",
					"I can see why that would be concerning. What's driving that issue?",
					"It sounds like this is really affecting your team. How so?",
				},
				Triggers: []string{"problem", "issue", "challenge", "struggling", "difficult"},
				Stage:    "pain",
			},
			{
				Name:        "Up-Front Contract",
				Description: "Setting clear expectations",
				Questions: []string{
					"What would you like to accomplish in our time together?",
					"How will you know if this meeting was worthwhile?",
					"What questions do you have for me?",
				},
				Responses: []string{
					"Let me suggest an agenda for our time together...",
					"Here's what I'd like to cover, does that work for you?",
				},
				Triggers: []string{"meeting", "agenda", "time", "expectations"},
				Stage:    "up_front_contract",
			},
		},
	},
	{
		ID:          "spin",
		Name:        "SPIN",
		Description: "Situation, Problem, Implication, Need-payoff methodology",
		Stages:      []string{"situation", "problem", "implication", "need_payoff", "close"},
		Techniques: []Technique{
			{
				Name:        "Situation Questions",
				Description: "Understanding current state",
				Questions: []string{
					"Can you walk me through your current process?",
					"How are you handling this today?",
					"What tools are you currently using?",
					"Who's involved in this process?",
				},
				Responses: []string{
					"That's helpful context. Let me understand...",
					"I see. Can you tell me more about how that works?",
				},
				Triggers: []string{"current", "process", "workflow", "today", "now"},
				Stage:    "situation",
			},
			{
				Name:        "Problem Questions",
				Description: "Identifying difficulties and dissatisfactions",
				Questions: []string{
					"What challenges are you facing with that approach?",
					"Are you satisfied with how that's working?",
					"What problems does that create?",
					"Where do you see gaps in your current solution?",
				},
				Responses: []string{
					"That does sound problematic. How often does that happen?",
					"I can see how that would be frustrating.",
				},
				Triggers: []string{"problem", "challenge", "issue", "difficulty", "gap"},
				Stage:    "problem",
			},
			{
				Name:        "Implication Questions",
				Description: "Exploring consequences of problems",
				Questions: []string{
					"What impact does that have on your team?",
					"How does that affect your customers?",
					"What happens if this continues?",
					"How much time does that waste?",
				},
				Responses: []string{
					"That's a significant impact. Have you calculated the cost?",
					"It sounds like this is affecting multiple areas.",
				},
				Triggers: []string{"impact", "affect", "consequence", "result", "outcome"},
				Stage:    "implication",
			},
			{
				Name:        "Need-Payoff Questions",
				Description: "Getting buyer to state benefits",
				Questions: []string{
					"How would solving this help your team?",
					"What would be the value of fixing this?",
					"How important is it to resolve this?",
					"What would success look like?",
				},
				Responses: []string{
					"That's exactly what our solution provides.",
					"Those are the benefits our clients typically see.",
				},
				Triggers: []string{"value", "benefit", "help", "solve", "success"},
				Stage:    "need_payoff",
			},
		},
	},
	{
		ID:          "meddic",
		Name:        "MEDDIC",
		Description: "Metrics, Economic buyer, Decision criteria, Decision process, Identify pain, Champion",
		Stages:      []string{"metrics", "economic_buyer", "decision_criteria", "decision_process", "identify_pain", "champion"},
		Techniques: []Technique{
			{
				Name:        "Metrics Qualification",
				Description: "Quantifying the opportunity",
				Questions: []string{
					"What metrics are you trying to improve?",
					"How do you measure success in this area?",
					"What's the current baseline?",
					"What's your target improvement?",
				},
				Responses: []string{
					"Those are important metrics. Let's explore how we can impact them.",
					"I understand the measurement challenge.",
				},
				Triggers: []string{"metrics", "measure", "kpi", "target", "goal"},
				Stage:    "metrics",
			},
			{
				Name:        "Economic Buyer Identification",
				Description: "Finding who controls the budget",
				Questions: []string{
					"Who typically makes decisions about investments like this?",
					"Who controls the budget for this initiative?",
					"Who would need to approve a purchase?",
					"Who else would be involved in this decision?",
				},
				Responses: []string{
					"It's important we involve the right stakeholders.",
					"I'd like to understand the decision-making process.",
				},
				Triggers: []string{"budget", "decision", "approve", "stakeholder", "authority"},
				Stage:    "economic_buyer",
			},
		},
	},
	{
		ID:          "challenger",
		Name:        "Challenger",
		Description: "Teach, Tailor, Take control approach",
		Stages:      []string{"teach", "tailor", "take_control"},
		Techniques: []Technique{
			{
				Name:        "Commercial Teaching",
				Description: "Teaching insights that lead to your solution",
				Questions: []string{
					"Have you considered the hidden costs of your current approach?",
					"Are you aware of how industry leaders are handling this?",
					"What if I told you there's a better way?",
				},
				Responses: []string{
					"Let me share what we're seeing across the industry...",
					"Here's an insight that might surprise you...",
					"Most companies don't realize that...",
				},
				Triggers: []string{"insight", "industry", "trend", "best practice", "research"},
				Stage:    "teach",
			},
			{
				Name:        "Tailored Messaging",
				Description: "Customizing insights to specific stakeholder",
				Questions: []string{
					"From your perspective, how does this impact you?",
					"What matters most to you in this area?",
					"How would your team benefit from this?",
				},
				Responses: []string{
					"For someone in your position, this typically means...",
					"Given your role, you're probably concerned about...",
				},
				Triggers: []string{"role", "position", "responsibility", "concern", "priority"},
				Stage:    "tailor",
			},
		},
	},
}

// Frameworks returns all four framework definitions. Shared read-only data;
// callers must not mutate.
func Frameworks() []Framework {
	return frameworks
}

// FrameworkByName looks a framework up by display name.
func FrameworkByName(name string) (Framework, bool) {
	for _, f := range frameworks {
		if f.Name == name {
			return f, true
		}
	}
	return Framework{}, false
}
