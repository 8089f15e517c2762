// Package puzzle holds the static puzzle table for the eleven game levels and
// the answer matching rules: normalized exact equality against the canonical
// answer or any acceptable alternative. No fuzzy matching, no partial credit.
package puzzle

import (
	"regexp"
	"strings"
)

type Puzzle struct {
	ID                int
	Type              string
	Title             string
	MissionBrief      string
	Question          string
	Answer            string
	Hint              string
	AcceptableAnswers []string
}

var puzzles = []Puzzle{
	{
		ID:                1,
		Type:              "pattern",
		Title:             "Intelligence Briefing",
		MissionBrief:      "Analyze gold standard RFP requirements for Intelligent Print Automation.",
		Question:          "Sort the intercepted intelligence into the correct categories.",
		Answer:            "DOCUMENT_SORT",
		Hint:              "MODERNIZE = Cloud/Security, CONSOLIDATE = Unified platform, AUTOMATE = AI/Workflows",
		AcceptableAnswers: []string{"DOCUMENT_SORT"},
	},
	{
		ID:                2,
		Type:              "network",
		Title:             "Eliminate the Threat",
		MissionBrief:      "Remove legacy print server infrastructure and build cloud-native architecture.",
		Question:          "Build the correct architecture: Endpoint → ? → Printer",
		Answer:            "CLOUD",
		Hint:              "The flow is: Endpoint → Cloud (TLS 443) → Printer (Port 9100). No servers needed!",
		AcceptableAnswers: []string{"CLOUD", "ARCHITECTURE"},
	},
	{
		ID:                3,
		Type:              "pattern",
		Title:             "Universal Compatibility Protocol",
		MissionBrief:      "Verify Vasion platform compatibility across all systems and technologies.",
		Question:          "Verify compatibility with 9 OS types and answer 6 questions.",
		Answer:            "COMPATIBLE",
		Hint:              "Vasion is truly agnostic—supports all OS types, printer manufacturers, and identity providers.",
		AcceptableAnswers: []string{"COMPATIBLE", "AGNOSTIC"},
	},
	{
		ID:                4,
		Type:              "interactive",
		Title:             "Zero Trust Initialization",
		MissionBrief:      "Activate zero-trust security architecture for Apex Industries.",
		Question:          "Complete MFA authentication and deploy secure off-network printing architecture.",
		Answer:            "ZEROTRUST",
		Hint:              "MFA Code: 742963. Architecture: Remote User → TLS → Gateway → Edge Service → Printer",
		AcceptableAnswers: []string{"ZEROTRUST", "ZERO_TRUST"},
	},
	{
		ID:                5,
		Type:              "interactive",
		Title:             "Certification Vault",
		MissionBrief:      "Verify enterprise security certifications to unlock the compliance vault.",
		Question:          "Match each certification to its requirement to unlock the vault.",
		Answer:            "CERTIFICATIONS",
		Hint:              "FedRAMP for federal, SOC 2 Type 2 for enterprise, ISO 27001 for global, ISO 42001 for AI.",
		AcceptableAnswers: []string{"CERTIFICATIONS", "VAULT"},
	},
	{
		ID:                6,
		Type:              "interactive",
		Title:             "Secure Release Protocol",
		MissionBrief:      "Deploy secure release printing and simplified scanning to prevent document theft.",
		Question:          "Demonstrate MFD authentication, secure release, and scan to cloud.",
		Answer:            "SECURE_RELEASE",
		Hint:              "Complete all three auth methods, print all jobs, and scan to OneDrive.",
		AcceptableAnswers: []string{"SECURE_RELEASE", "PULL_PRINT"},
	},
	{
		ID:                7,
		Type:              "interactive",
		Title:             "Guest Infiltration Prevention",
		MissionBrief:      "Enable secure guest printing without compromising network security.",
		Question:          "Complete the Web Print workflow and verification quiz.",
		Answer:            "WEB_PRINT",
		Hint:              "Web Print requires no software installation and works from any browser, on or off network.",
		AcceptableAnswers: []string{"WEB_PRINT", "GUEST_PRINT"},
	},
	{
		ID:                8,
		Type:              "interactive",
		Title:             "AI Management Deployment",
		MissionBrief:      "Deploy AI-powered intelligent management to automate print tasks.",
		Question:          "Interact with AI agent and identify automation opportunities.",
		Answer:            "AI_MANAGEMENT",
		Hint:              "AI can automate driver updates, dynamic deployment, and self-service workflows.",
		AcceptableAnswers: []string{"AI_MANAGEMENT", "AI_AUTOMATION"},
	},
	{
		ID:                9,
		Type:              "interactive",
		Title:             "Legacy System Analysis",
		MissionBrief:      "Analyze legacy output management to understand the complexity before consolidation.",
		Question:          "Identify teams, analyze architecture, calculate costs, and find problems.",
		Answer:            "LEGACY_ANALYSIS",
		Hint:              "Two teams (backend/frontend), 10 servers, $18K-$50K/year in costs.",
		AcceptableAnswers: []string{"LEGACY_ANALYSIS", "LEGACY"},
	},
	{
		ID:                10,
		Type:              "interactive",
		Title:             "Unified Output Platform",
		MissionBrief:      "Deploy Vasion Output to consolidate all backend and frontend printing.",
		Question:          "Configure Vasion Output, build architecture, and test failover.",
		Answer:            "UNIFIED_OUTPUT",
		Hint:              "4 steps: Routing → Output Service → Edge Service → EHR/ERP. Both flows use same Edge Service.",
		AcceptableAnswers: []string{"UNIFIED_OUTPUT", "VASION_OUTPUT"},
	},
	{
		ID:                11,
		Type:              "final",
		Title:             "Final Transmission",
		MissionBrief:      "Decrypt this final message to complete your mission.",
		Question:          "NJTTJPO DPNQMFUF",
		Answer:            "MISSION COMPLETE",
		Hint:              "Caesar cipher, shift back by 1.",
		AcceptableAnswers: []string{"MISSION COMPLETE", "MISSIONCOMPLETE"},
	},
}

// All returns the full puzzle table in level order.
func All() []Puzzle {
	out := make([]Puzzle, len(puzzles))
	copy(out, puzzles)
	return out
}

// ByID returns the puzzle for a level, or nil if the level does not exist.
func ByID(id int) *Puzzle {
	for i := range puzzles {
		if puzzles[i].ID == id {
			p := puzzles[i]
			return &p
		}
	}
	return nil
}

var spaceRun = regexp.MustCompile(`\s+`)

// Normalize uppercases, trims, and collapses internal whitespace.
func Normalize(answer string) string {
	return spaceRun.ReplaceAllString(strings.ToUpper(strings.TrimSpace(answer)), " ")
}

// Check reports whether userAnswer matches the canonical answer or any of the
// alternatives after normalization.
func Check(userAnswer, correctAnswer string, alternatives []string) bool {
	normalized := Normalize(userAnswer)
	if normalized == Normalize(correctAnswer) {
		return true
	}
	for _, alt := range alternatives {
		if normalized == Normalize(alt) {
			return true
		}
	}
	return false
}

// Validate checks an answer against the puzzle table for the given level.
// Unknown levels never validate.
func Validate(puzzleID int, answer string) bool {
	p := ByID(puzzleID)
	if p == nil {
		return false
	}
	return Check(answer, p.Answer, p.AcceptableAnswers)
}

var introAnswers = []string{
	"PRINT SERVERS ARE THE WEAKEST LINK",
	"PRINTSERVERSARETHEWEAKESTLINK",
}

// ValidateIntro checks the intro-screen Caesar cipher answer.
func ValidateIntro(answer string) bool {
	normalized := Normalize(answer)
	for _, acceptable := range introAnswers {
		if normalized == Normalize(acceptable) {
			return true
		}
	}
	return false
}

// DecodeCaesar shifts alphabetic characters back by shift positions, leaving
// everything else unchanged.
func DecodeCaesar(text string, shift int) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, c := range text {
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteRune('A' + (c-'A'-rune(shift)+26)%26)
		case c >= 'a' && c <= 'z':
			b.WriteRune('a' + (c-'a'-rune(shift)+26)%26)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has a basic local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
