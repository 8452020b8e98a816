package skills

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		vocab           []string
		expectedMatched []string
		expectedMissing []string
	}{
		{
			name:            "mixed case containment",
			text:            "Senior Python developer with React experience",
			vocab:           []string{"python", "react", "docker"},
			expectedMatched: []string{"python", "react"},
			expectedMissing: []string{"docker"},
		},
		{
			name:            "substring match inside word",
			text:            "drives a car to work",
			vocab:           []string{"r", "go"},
			expectedMatched: []string{"r"},
			expectedMissing: []string{"go"},
		},
		{
			name:            "empty text misses everything",
			text:            "",
			vocab:           []string{"python", "sql"},
			expectedMatched: []string{},
			expectedMissing: []string{"python", "sql"},
		},
		{
			name:            "empty vocabulary",
			text:            "python everywhere",
			vocab:           []string{},
			expectedMatched: []string{},
			expectedMissing: []string{},
		},
		{
			name:            "multi-word term",
			text:            "expert in spring boot services",
			vocab:           []string{"spring boot", "spring"},
			expectedMatched: []string{"spring boot", "spring"},
			expectedMissing: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, missing := Extract(tt.text, tt.vocab)

			if !slices.Equal(matched, tt.expectedMatched) {
				t.Errorf("matched = %v, want %v", matched, tt.expectedMatched)
			}
			if !slices.Equal(missing, tt.expectedMissing) {
				t.Errorf("missing = %v, want %v", missing, tt.expectedMissing)
			}
		})
	}
}

// matched and missing must always partition the vocabulary exactly.
func TestExtractPartitionsVocabulary(t *testing.T) {
	vocab := NewDefaultVocabulary().Terms()
	texts := []string{
		"",
		"experienced python developer with docker, kubernetes and react",
		"completely unrelated prose about gardening",
	}

	for _, text := range texts {
		matched, missing := Extract(text, vocab)

		if len(matched)+len(missing) != len(vocab) {
			t.Fatalf("partition size mismatch for %q: %d + %d != %d",
				text, len(matched), len(missing), len(vocab))
		}

		union := make([]string, 0, len(vocab))
		union = append(union, matched...)
		union = append(union, missing...)
		for _, term := range vocab {
			if !slices.Contains(union, term) {
				t.Errorf("term %q missing from partition for %q", term, text)
			}
		}
		for _, term := range matched {
			if slices.Contains(missing, term) {
				t.Errorf("term %q appears in both matched and missing", term)
			}
		}
	}
}

func TestSelectRelevant(t *testing.T) {
	vocab := []string{"python", "react", "sql", "docker"}
	jd := "Looking for a Python engineer who knows SQL"

	relevant := SelectRelevant(jd, vocab)

	expected := []string{"python", "sql"}
	if !slices.Equal(relevant, expected) {
		t.Errorf("SelectRelevant = %v, want %v", relevant, expected)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		resume        string
		jdSkills      []string
		expectedScore float64
	}{
		{
			name:          "half coverage",
			resume:        "python developer",
			jdSkills:      []string{"python", "react"},
			expectedScore: 0.5,
		},
		{
			name:          "full coverage",
			resume:        "python and react engineer",
			jdSkills:      []string{"python", "react"},
			expectedScore: 1.0,
		},
		{
			name:          "no coverage",
			resume:        "accountant",
			jdSkills:      []string{"python", "react"},
			expectedScore: 0.0,
		},
		{
			name:          "empty jd skills scores zero by policy",
			resume:        "python developer",
			jdSkills:      []string{},
			expectedScore: 0.0,
		},
		{
			name:          "one third rounds to 2 decimals",
			resume:        "python",
			jdSkills:      []string{"python", "react", "docker"},
			expectedScore: 0.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _, _ := Score(tt.resume, tt.jdSkills)

			if score != tt.expectedScore {
				t.Errorf("Score = %v, want %v", score, tt.expectedScore)
			}
			if score < 0.0 || score > 1.0 {
				t.Errorf("Score %v out of [0,1]", score)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	resume := "python developer with sql and docker"
	jdSkills := []string{"python", "sql", "react", "docker"}

	s1, m1, _ := Score(resume, jdSkills)
	s2, m2, _ := Score(resume, jdSkills)

	if s1 != s2 || !slices.Equal(m1, m2) {
		t.Errorf("Score is not deterministic: (%v, %v) vs (%v, %v)", s1, m1, s2, m2)
	}
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.txt")
	content := "# web\nPython\nreact\n\npython\nGo\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}

	expected := []string{"python", "react", "go"}
	if !slices.Equal(vocab.Terms(), expected) {
		t.Errorf("Terms = %v, want %v", vocab.Terms(), expected)
	}
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected error for missing vocabulary file")
	}
}

func BenchmarkExtract(b *testing.B) {
	vocab := NewDefaultVocabulary().Terms()
	text := "Experienced Python developer with knowledge of machine learning, docker, kubernetes and react. Strong communication and problem solving."

	for b.Loop() {
		Extract(text, vocab)
	}
}
