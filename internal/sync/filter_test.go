package sync

import (
	"testing"

	"tubesync/internal/yt"
)

func video(id, title, description string, seconds int) yt.VideoDetails {
	return yt.VideoDetails{ID: id, Title: title, Description: description, DurationSeconds: seconds}
}

func TestCriteriaAdmits(t *testing.T) {
	tests := []struct {
		name string
		crit Criteria
		v    yt.VideoDetails
		want bool
	}{
		{
			name: "noCriteria",
			v:    video("v", "Anything", "", 10),
			want: true,
		},
		{
			name: "keywordInTitle",
			crit: Criteria{ExcludeKeywords: []string{"trailer"}},
			v:    video("v", "Official Trailer", "", 100),
			want: false,
		},
		{
			name: "keywordInDescription",
			crit: Criteria{ExcludeKeywords: []string{"sponsored"}},
			v:    video("v", "Review", "This is SPONSORED content", 100),
			want: false,
		},
		{
			name: "keywordCaseInsensitive",
			crit: Criteria{ExcludeKeywords: []string{"SHORTS"}},
			v:    video("v", "my shorts compilation", "", 100),
			want: false,
		},
		{
			name: "keywordAbsent",
			crit: Criteria{ExcludeKeywords: []string{"trailer"}},
			v:    video("v", "Full Episode", "complete", 100),
			want: true,
		},
		{
			name: "belowMinDuration",
			crit: Criteria{MinDurationSeconds: 600},
			v:    video("v", "t", "", 300),
			want: false,
		},
		{
			name: "aboveMaxDuration",
			crit: Criteria{MaxDurationSeconds: 1200},
			v:    video("v", "t", "", 1500),
			want: false,
		},
		{
			name: "withinBounds",
			crit: Criteria{MinDurationSeconds: 600, MaxDurationSeconds: 1200},
			v:    video("v", "t", "", 900),
			want: true,
		},
		{
			name: "zeroBoundsDisabled",
			crit: Criteria{},
			v:    video("v", "t", "", 0),
			want: true,
		},
		{
			name: "invertedBoundsAdmitNothing",
			crit: Criteria{MinDurationSeconds: 1200, MaxDurationSeconds: 600},
			v:    video("v", "t", "", 900),
			want: false,
		},
		{
			name: "emptyKeywordIgnored",
			crit: Criteria{ExcludeKeywords: []string{"", "  "}},
			v:    video("v", "t", "", 100),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.crit.Admits(tt.v); got != tt.want {
				t.Errorf("Admits(%+v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

// Tightening any dimension of the criteria must never grow the admitted set.
func TestCriteriaMonotonicStrictness(t *testing.T) {
	videos := []yt.VideoDetails{
		video("v1", "Short clip", "", 120),
		video("v2", "Long talk", "", 3600),
		video("v3", "Trailer drop", "", 900),
		video("v4", "Episode one", "full episode", 1000),
		video("v5", "Episode two", "", 1100),
	}

	admittedSet := func(c Criteria) map[string]bool {
		out := make(map[string]bool)
		for _, v := range videos {
			if c.Admits(v) {
				out[v.ID] = true
			}
		}
		return out
	}

	base := Criteria{MinDurationSeconds: 300, MaxDurationSeconds: 2000}
	tighter := []Criteria{
		{MinDurationSeconds: 950, MaxDurationSeconds: 2000},
		{MinDurationSeconds: 300, MaxDurationSeconds: 1050},
		{MinDurationSeconds: 300, MaxDurationSeconds: 2000, ExcludeKeywords: []string{"trailer"}},
		{MinDurationSeconds: 950, MaxDurationSeconds: 1050, ExcludeKeywords: []string{"episode"}},
	}

	baseSet := admittedSet(base)
	for i, c := range tighter {
		got := admittedSet(c)
		for id := range got {
			if !baseSet[id] {
				t.Errorf("criteria[%d]: video %s admitted under tighter criteria but not under base", i, id)
			}
		}
	}
}

func TestCriteriaIsZero(t *testing.T) {
	if !(Criteria{}).IsZero() {
		t.Error("empty Criteria should be zero")
	}
	if (Criteria{MinDurationSeconds: 1}).IsZero() {
		t.Error("Criteria with a bound should not be zero")
	}
	if (Criteria{ExcludeKeywords: []string{"x"}}).IsZero() {
		t.Error("Criteria with keywords should not be zero")
	}
}
