package site

import "darew.com/internal/content"

type AboutPage struct {
	Heading       string         `json:"heading"`
	Intro         string         `json:"intro"`
	StoryHeading  string         `json:"storyHeading"`
	Story         []string       `json:"story"`
	Mission       string         `json:"mission"`
	Vision        string         `json:"vision"`
	SafetyHeading string         `json:"safetyHeading"`
	Safety        string         `json:"safety"`
	Compliance    []string       `json:"compliance"`
	Excellence    string         `json:"excellence"`
	Figures       []content.Stat `json:"figures"`
}

// About returns the static company profile.
func About() AboutPage {
	return AboutPage{
		Heading:      "About Us",
		Intro:        "A legacy of excellence in the international oil and gas sector.",
		StoryHeading: "Pioneering Energy Solutions Since 1998",
		Story: []string{
			"Darew Venture Limited has evolved from a regional logistics provider into a premier international energy company. Through strategic investments in technology and human capital, we have expanded our footprint across the upstream and downstream sectors.",
			"We are committed to sustainable growth, balancing the world's need for energy with responsible environmental stewardship. Our operations adhere to the highest international standards of safety and compliance.",
		},
		Mission:       "To deliver reliable energy solutions that drive economic growth while upholding the highest safety standards.",
		Vision:        "To be the preferred global partner in the energy sector, known for integrity and innovation.",
		SafetyHeading: "Safety & Compliance",
		Safety:        "At Darew Venture, safety is not just a policy; it is our culture. We operate under strict HSSE (Health, Safety, Security, and Environment) guidelines.",
		Compliance: []string{
			"ISO 9001:2015 Certified",
			"Zero Harm Policy",
			"Environmental Impact Assessments",
			"Regular Safety Audits",
		},
		Excellence: "We leverage cutting-edge technology and data analytics to optimize our exploration and distribution processes, ensuring maximum efficiency and minimal downtime.",
		Figures: []content.Stat{
			{Label: "Reliability", Value: "99.9%"},
			{Label: "Support", Value: "24/7"},
			{Label: "Reach", Value: "Global"},
		},
	}
}
