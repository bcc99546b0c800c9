package model

import (
	"fmt"
	"strings"
)

// Category is one of the six fixed need areas of the section
type Category int

const (
	CommunicationInteraction Category = iota
	CognitionLearning
	SEMH
	SensoryPhysical
	HealthCare
	SocialCare
)

// CategoryCount is the number of categories; the set never grows at runtime
const CategoryCount = 6

// MaxNeeds is the upper bound of indexed needs in one category
const MaxNeeds = 10

// Categories returns all categories in rendering order
func Categories() []Category {
	return []Category{
		CommunicationInteraction,
		CognitionLearning,
		SEMH,
		SensoryPhysical,
		HealthCare,
		SocialCare,
	}
}

// Valid reports whether c is one of the six categories
func (c Category) Valid() bool {
	return c >= CommunicationInteraction && c <= SocialCare
}

func (c Category) String() string {
	switch c {
	case CommunicationInteraction:
		return "communication_interaction"
	case CognitionLearning:
		return "cognition_learning"
	case SEMH:
		return "semh"
	case SensoryPhysical:
		return "sensory_physical"
	case HealthCare:
		return "health_care"
	case SocialCare:
		return "social_care"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Title is the heading used in the rendered section
func (c Category) Title() string {
	switch c {
	case CommunicationInteraction:
		return "Communication and Interaction"
	case CognitionLearning:
		return "Cognition and Learning"
	case SEMH:
		return "Social, Emotional and Mental Health"
	case SensoryPhysical:
		return "Sensory and/or Physical"
	case HealthCare:
		return "Health Care"
	case SocialCare:
		return "Social Care"
	default:
		return c.String()
	}
}

// ParseCategory accepts the canonical key, the title, or a common short form
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("&", "and", "-", " ", "_", " ", ",", "", "/", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")

	switch key {
	case "communication interaction", "communication and interaction", "comms and interaction", "ci":
		return CommunicationInteraction, nil
	case "cognition learning", "cognition and learning", "cl":
		return CognitionLearning, nil
	case "semh", "social emotional and mental health", "social emotional mental health":
		return SEMH, nil
	case "sensory physical", "sensory and physical", "sensory and or physical", "sp":
		return SensoryPhysical, nil
	case "health care", "health", "healthcare":
		return HealthCare, nil
	case "social care", "socialcare":
		return SocialCare, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalText encodes the category as its canonical key
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes any form accepted by ParseCategory
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
