package domain

// SiteContent holds editable static page blocks keyed by page ("home",
// "howItWorks", "about", "footer").
type SiteContent map[string]map[string]any

func DefaultSiteContent() SiteContent {
	return SiteContent{
		"home": {
			"heroHeadline":    "Find the right psychologist, fast.",
			"heroSubtext":     "Connect with licensed professionals.",
			"howItWorksSteps": []any{"Browse", "View details", "Send request"},
			"calloutText":     "Are you a psychologist? List your practice!",
		},
		"howItWorks": {
			"intro":       "Our platform simplifies finding mental health support.",
			"clientSteps": []any{"Browse profiles", "Compare options", "Request booking"},
			"psySection":  "We advertise your practice for a fixed monthly fee.",
		},
		"about": {
			"mission":   "Our mission is to bridge the gap between people and the care they need.",
			"teamBlurb": "We are a dedicated team of clinicians and engineers.",
		},
		"footer": {
			"links":    []any{"Services", "About", "Contact"},
			"policies": []any{"Privacy Policy", "Terms of Service"},
		},
	}
}
