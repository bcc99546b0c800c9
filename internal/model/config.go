package model

import "time"

// Config holds all runtime configuration, including the rule tables the
// pipeline consults. Rules are passed explicitly into constructors.
type Config struct {
	Rules       RulesConfig       `yaml:"rules" mapstructure:"rules"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// RulesConfig groups the external rule tables
type RulesConfig struct {
	Taxonomy       []CategoryRule       `yaml:"taxonomy" mapstructure:"taxonomy"`
	Disambiguation []DisambiguationRule `yaml:"disambiguation" mapstructure:"disambiguation"`
	Overrides      []OverrideDirective  `yaml:"overrides" mapstructure:"overrides"`
	Strengths      StrengthRules        `yaml:"strengths" mapstructure:"strengths"`
	Statutory      StatutoryRules       `yaml:"statutory" mapstructure:"statutory"`
	Anonymization  AnonymizationRules   `yaml:"anonymization" mapstructure:"anonymization"`
}

// CategoryRule defines the scope of one category (the category-assignment guide)
type CategoryRule struct {
	Category Category `yaml:"category" mapstructure:"category"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"` // Whole-word, case-insensitive
	Patterns []string `yaml:"patterns,omitempty" mapstructure:"patterns"` // Regular expressions
}

// DisambiguationRule picks one category when exactly the listed categories match
type DisambiguationRule struct {
	Between []Category `yaml:"between" mapstructure:"between"`
	Choose  Category   `yaml:"choose" mapstructure:"choose"`
	When    []string   `yaml:"when,omitempty" mapstructure:"when"` // Phrases; empty means always
}

// TriggerKind selects how an override trigger is evaluated
type TriggerKind string

const (
	TriggerNoNeeds TriggerKind = "no_needs" // Category has no need fragments
	TriggerPhrase  TriggerKind = "phrase"   // Any category fragment mentions a phrase
)

// Trigger is the condition that activates an override
type Trigger struct {
	Kind    TriggerKind `yaml:"kind" mapstructure:"kind"`
	Phrases []string    `yaml:"phrases,omitempty" mapstructure:"phrases"`
}

// OverrideDirective is a mandatory verbatim text block with placeholder slots
// {name}, {subjectPronoun} and {possessivePronoun}
type OverrideDirective struct {
	Name                  string   `yaml:"name" mapstructure:"name"`
	Category              Category `yaml:"category" mapstructure:"category"`
	Priority              int      `yaml:"priority" mapstructure:"priority"` // Lower runs first
	Trigger               Trigger  `yaml:"trigger" mapstructure:"trigger"`
	Need                  string   `yaml:"need" mapstructure:"need"`
	Provision             string   `yaml:"provision" mapstructure:"provision"` // Social Care: statutory channel
	ProvisionNonStatutory string   `yaml:"provision_non_statutory,omitempty" mapstructure:"provision_non_statutory"`
	Outcome               string   `yaml:"outcome" mapstructure:"outcome"`
}

// StrengthRules drive the strength curator
type StrengthRules struct {
	Positive          []string `yaml:"positive" mapstructure:"positive"`                       // Markers of a positive quality, skill, interest or improvement
	Neutral           []string `yaml:"neutral" mapstructure:"neutral"`                         // Average / expected-range phrasing
	AbsenceOfNegative []string `yaml:"absence_of_negative" mapstructure:"absence_of_negative"` // Regular expressions
	Qualifiers        []string `yaml:"qualifiers" mapstructure:"qualifiers"`                   // Words that make a positive conditional
}

// StatutoryRules classify Social Care provision fragments
type StatutoryRules struct {
	Tags []string `yaml:"tags" mapstructure:"tags"`
}

// AnonymizationRules list the honorifics that introduce a personal name
type AnonymizationRules struct {
	Titles []string `yaml:"titles" mapstructure:"titles"`
}

// CacheConfig controls the assembled-result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	Clean         bool `yaml:"clean" mapstructure:"clean"`             // Also write a copy without citation tags
	FactMapper    bool `yaml:"fact_mapper" mapstructure:"fact_mapper"` // Shorten document names inside citation tags
	AllowCritical bool `yaml:"allow_critical" mapstructure:"allow_critical"`
}

// DefaultConfig returns the built-in configuration and rule tables
func DefaultConfig() *Config {
	return &Config{
		Rules: DefaultRules(),
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".npo-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{Workers: 4},
	}
}

// DefaultRules returns the built-in rule tables
func DefaultRules() RulesConfig {
	return RulesConfig{
		Taxonomy: []CategoryRule{
			{
				Category: CommunicationInteraction,
				Keywords: []string{
					"speech", "language", "communication", "salt", "social interaction",
					"expressive", "receptive", "vocabulary", "eye contact", "conversation",
					"attention and listening", "social communication", "turn-taking",
				},
			},
			{
				Category: CognitionLearning,
				Keywords: []string{
					"reading", "writing", "literacy", "numeracy", "maths", "spelling",
					"dyslexia", "working memory", "processing speed", "phonics",
					"learning difficulty", "cognitive", "curriculum",
				},
			},
			{
				Category: SEMH,
				Keywords: []string{
					"anxiety", "emotional", "emotions", "regulation", "self-esteem", "behaviour",
					"mental health", "wellbeing", "anger", "dysregulation", "exclusion",
					"zones of regulation", "trauma", "attachment", "mood", "camhs",
				},
			},
			{
				Category: SensoryPhysical,
				Keywords: []string{
					"sensory", "fine motor", "gross motor", "handwriting", "coordination",
					"occupational therapy", "visual impairment", "hearing", "physical",
					"mobility", "balance", "dyspraxia", "motor skills", "proprioceptive",
				},
			},
			{
				Category: HealthCare,
				Keywords: []string{
					"medical", "medication", "paediatrician", "epilepsy", "asthma", "allergy",
					"neurodevelopmental", "health", "gp", "nhs", "continence", "sleep",
					"feeding", "hospital", "specialist nurse",
				},
			},
			{
				Category: SocialCare,
				Keywords: []string{
					"social care", "social worker", "respite", "short breaks", "carer",
					"home adaptation", "personal care", "family support", "early help",
					"child in need", "parenting",
				},
			},
		},
		Disambiguation: []DisambiguationRule{
			{Between: []Category{SEMH, HealthCare}, Choose: SEMH, When: []string{"mental health", "camhs"}},
			{Between: []Category{CommunicationInteraction, SEMH}, Choose: CommunicationInteraction, When: []string{"social communication"}},
			{Between: []Category{HealthCare, SocialCare}, Choose: SocialCare, When: []string{"respite", "short breaks", "personal care"}},
		},
		Overrides: []OverrideDirective{
			{
				Name:      "health-awaiting-neurodevelopmental-assessment",
				Category:  HealthCare,
				Priority:  10,
				Trigger:   Trigger{Kind: TriggerPhrase, Phrases: []string{"awaiting neurodevelopmental assessment", "awaiting a neurodevelopmental assessment", "on the neurodevelopmental pathway"}},
				Need:      "{name} is awaiting a neurodevelopmental assessment. Any health needs identified will be recorded once {possessivePronoun} assessment is complete.",
				Provision: "Not applicable",
				Outcome:   "Not applicable",
			},
			{
				Name:      "health-no-needs",
				Category:  HealthCare,
				Priority:  20,
				Trigger:   Trigger{Kind: TriggerNoNeeds},
				Need:      "{name} has no identified needs for specialist health services at the current time.",
				Provision: "Not applicable",
				Outcome:   "Not applicable",
			},
			{
				Name:                  "social-care-no-needs",
				Category:              SocialCare,
				Priority:              20,
				Trigger:               Trigger{Kind: TriggerNoNeeds},
				Need:                  "{name} has no identified social care needs at the current time.",
				Provision:             "Not applicable",
				ProvisionNonStatutory: "Not applicable",
				Outcome:               "Not applicable",
			},
		},
		Strengths: StrengthRules{
			Positive: []string{
				"enjoy", "enjoys", "enjoyed", "enjoying", "loves", "loved", "likes",
				"is able to", "good at", "is skilled", "skilled", "strength", "interest",
				"interested in", "has improved", "improved", "improvement", "progress",
				"has progressed", "confident", "kind", "caring", "creative", "motivated",
				"excel", "excels", "excelled", "proud", "well-liked", "helpful", "curious",
				"determined",
			},
			Neutral: []string{
				"average", "age-appropriate", "age appropriate", "in line with",
				"typical", "expected range", "within normal limits", "satisfactory",
			},
			AbsenceOfNegative: []string{
				`\bno (concerns?|difficult(y|ies)|issues?|problems?)\b`,
				`\b(does not|doesn't|did not|didn't|rarely|never) (struggle|have difficult|present with|show difficult)`,
				`\bnot (a problem|an issue|a concern)\b`,
				`\bwithout (difficulty|concern)\b`,
			},
			Qualifiers: []string{
				"but", "however", "although", "though", "only when", "only with",
				"when prompted", "with support", "with adult support", "unless",
				"except", "inconsistent", "sometimes", "at times",
			},
		},
		Statutory: StatutoryRules{
			Tags: []string{
				"home adaptation", "major adaptation", "personal care", "personal-care",
				"disabled facilities grant", "csdpa", "chronically sick and disabled persons act",
			},
		},
		Anonymization: AnonymizationRules{
			Titles: []string{"Dr", "Mr", "Mrs", "Ms", "Miss", "Mx", "Prof", "Professor"},
		},
	}
}
