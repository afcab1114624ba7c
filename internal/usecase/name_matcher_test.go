package usecase

import (
	"math"
	"reflect"
	"testing"
)

func TestNewNameMatcher(t *testing.T) {
	t.Run("uses defaults when zero", func(t *testing.T) {
		m := NewNameMatcher(NameMatchConfig{})
		if m.similarityThreshold != 0.55 {
			t.Errorf("similarityThreshold = %v, want 0.55 (default)", m.similarityThreshold)
		}
		if m.tokenOverlapThreshold != 0.5 {
			t.Errorf("tokenOverlapThreshold = %v, want 0.5 (default)", m.tokenOverlapThreshold)
		}
	})

	t.Run("keeps provided thresholds", func(t *testing.T) {
		m := NewNameMatcher(NameMatchConfig{SimilarityThreshold: 0.6, TokenOverlapThreshold: 0.75})
		if m.similarityThreshold != 0.6 {
			t.Errorf("similarityThreshold = %v, want 0.6", m.similarityThreshold)
		}
		if m.tokenOverlapThreshold != 0.75 {
			t.Errorf("tokenOverlapThreshold = %v, want 0.75", m.tokenOverlapThreshold)
		}
	})
}

func TestIsNameMatch(t *testing.T) {
	m := NewNameMatcher(NameMatchConfig{})

	tests := []struct {
		name   string
		title  string
		target string
		want   bool
	}{
		{
			name:   "title with extra capacity suffix",
			title:  "Hisense Inverter Air Conditioner 1.5HP",
			target: "Hisense Inverter Air Conditioner",
			want:   true,
		},
		{
			name:   "unrelated product",
			title:  "Samsung Fridge",
			target: "Hisense Inverter Air Conditioner",
			want:   false,
		},
		{
			name:   "abbreviated capacity",
			title:  "Hisense 20L Microwave Oven",
			target: "Hisense 20 Litre Microwave",
			want:   true,
		},
		{
			name:   "case differences are ignored",
			title:  "HISENSE INVERTER AIR CONDITIONER",
			target: "Hisense Inverter Air Conditioner",
			want:   true,
		},
		{
			name:   "similar letters but few shared tokens",
			title:  "Aeon 90 Litre Chests Freezers",
			target: "Aeon 90 Litres Chest Freezer",
			want:   false,
		},
		{
			name:   "target without meaningful tokens",
			title:  "TV 4K",
			target: "TV 4K",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.IsNameMatch(tt.title, tt.target); got != tt.want {
				score := m.Score(tt.title, tt.target)
				t.Errorf("IsNameMatch(%q, %q) = %v, want %v (similarity %.3f, overlap %.3f)",
					tt.title, tt.target, got, tt.want, score.Similarity, score.TokenOverlap)
			}
		})
	}
}

func TestIsNameMatch_StricterThreshold(t *testing.T) {
	m := NewNameMatcher(NameMatchConfig{SimilarityThreshold: 0.95})

	if m.IsNameMatch("Hisense Inverter Air Conditioner 1.5HP", "Hisense Inverter Air Conditioner") {
		t.Error("IsNameMatch() = true, want false with similarity threshold 0.95")
	}
}

func TestScore(t *testing.T) {
	m := NewNameMatcher(NameMatchConfig{})

	score := m.Score("Hisense Inverter Air Conditioner 1.5HP", "Hisense Inverter Air Conditioner")

	// 32 matching characters out of 38 + 32
	wantSimilarity := 64.0 / 70.0
	if math.Abs(score.Similarity-wantSimilarity) > 1e-9 {
		t.Errorf("Similarity = %v, want %v", score.Similarity, wantSimilarity)
	}
	if score.TokenOverlap != 1.0 {
		t.Errorf("TokenOverlap = %v, want 1.0", score.TokenOverlap)
	}

	wantTokens := []string{"hisense", "inverter", "air", "conditioner"}
	if !reflect.DeepEqual(score.MatchedTokens, wantTokens) {
		t.Errorf("MatchedTokens = %v, want %v", score.MatchedTokens, wantTokens)
	}
}

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "microwave", b: "microwave", want: 1.0},
		{name: "case insensitive", a: "MicroWave", b: "microwave", want: 1.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "half shared", a: "abcd", b: "abxy", want: 0.5},
		{name: "both empty", a: "", b: "", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := similarityRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("similarityRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMeaningfulTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "drops short tokens and quotes",
			input: `TCL 55" UHD 4K Smart TV`,
			want:  []string{"tcl", "uhd", "smart"},
		},
		{
			name:  "splits on punctuation",
			input: "Nexus 4-Burner/Gas,Cooker: (Black)",
			want:  []string{"nexus", "burner", "gas", "cooker", "black"},
		},
		{
			name:  "deduplicates",
			input: "Smart smart SMART",
			want:  []string{"smart"},
		},
		{
			name:  "keeps decimal tokens intact",
			input: "Conditioner 1.5HP",
			want:  []string{"conditioner", "1.5hp"},
		},
		{
			name:  "nothing meaningful",
			input: "TV 4K",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := meaningfulTokens(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("meaningfulTokens(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindIntersection(t *testing.T) {
	count, matched := findIntersection(
		[]string{"hisense", "20l", "microwave", "oven"},
		[]string{"hisense", "litre", "microwave", "hisense"},
	)

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	want := []string{"hisense", "microwave"}
	if !reflect.DeepEqual(matched, want) {
		t.Errorf("matched = %v, want %v", matched, want)
	}
}
