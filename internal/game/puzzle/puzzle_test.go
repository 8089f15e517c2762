package puzzle

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		puzzleID int
		answer   string
		want     bool
	}{
		{"canonical answer", 1, "DOCUMENT_SORT", true},
		{"case and whitespace insensitive", 1, " document_sort ", true},
		{"acceptable alternative", 2, "ARCHITECTURE", true},
		{"no match", 2, "CLOUDS", false},
		{"level 11 canonical", 11, "MISSION COMPLETE", true},
		{"level 11 no-space variant", 11, "missioncomplete", true},
		{"internal whitespace collapsed", 11, "MISSION   COMPLETE", true},
		{"unknown level", 99, "ANYTHING", false},
		{"empty answer", 3, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.puzzleID, tt.answer); got != tt.want {
				t.Errorf("Validate(%d, %q) = %v, want %v", tt.puzzleID, tt.answer, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  world  ", "HELLO WORLD"},
		{"Zero\tTrust", "ZERO TRUST"},
		{"already", "ALREADY"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeCaesar(t *testing.T) {
	tests := []struct {
		text  string
		shift int
		want  string
	}{
		{"NJTTJPO DPNQMFUF", 1, "MISSION COMPLETE"},
		{"B", 1, "A"},
		{"a", 1, "z"},
		{"Hello, World!", 0, "Hello, World!"},
		{"123-456", 5, "123-456"},
	}
	for _, tt := range tests {
		if got := DecodeCaesar(tt.text, tt.shift); got != tt.want {
			t.Errorf("DecodeCaesar(%q, %d) = %q, want %q", tt.text, tt.shift, got, tt.want)
		}
	}
}

func TestValidateIntro(t *testing.T) {
	if !ValidateIntro("print servers are the weakest link") {
		t.Error("expected spaced intro answer to validate")
	}
	if !ValidateIntro("PRINTSERVERSARETHEWEAKESTLINK") {
		t.Error("expected no-space intro answer to validate")
	}
	if ValidateIntro("print servers") {
		t.Error("expected partial answer to be rejected")
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.c", true},
		{"agent.zero@example.com", true},
		{"not-an-email", false},
		{"has space@example.com", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestPuzzleTable(t *testing.T) {
	all := All()
	if len(all) != 11 {
		t.Fatalf("expected 11 puzzles, got %d", len(all))
	}
	for i, p := range all {
		if p.ID != i+1 {
			t.Errorf("puzzle %d has ID %d", i, p.ID)
		}
		if p.Answer == "" {
			t.Errorf("puzzle %d has empty answer", p.ID)
		}
	}

	if ByID(12) != nil {
		t.Error("expected no puzzle for level 12")
	}

	// The final transmission must decode to its own answer.
	p := ByID(11)
	if got := DecodeCaesar(p.Question, 1); got != p.Answer {
		t.Errorf("level 11 decodes to %q, want %q", got, p.Answer)
	}
}
