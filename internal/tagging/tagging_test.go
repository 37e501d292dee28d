package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pinax-social-backend/internal/domain"
)

func TestParseTagInput(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"one", []string{"one"}},
		{"one two", []string{"one", "two"}},
		{"one two three", []string{"one", "three", "two"}},
		{"one one two two", []string{"one", "two"}},
		{"one, two", []string{"one", "two"}},
		{"one two, three", []string{"one two", "three"}},
		{",one", []string{"one"}},
		{",one two", []string{"one two"}},
		{`"one two"`, []string{"one two"}},
		{`"one two three" four`, []string{"four", "one two three"}},
		{`"one, two"`, []string{"one, two"}},
		{`"one two", three`, []string{"one two", "three"}},
		{`a-one "a-two and a-three"`, []string{"a-one", "a-two and a-three"}},
		{`"one`, []string{"one"}},
		{`one"`, []string{"one"}},
		{`"one, two`, []string{"one", "two"}},
		{`""`, []string{}},
		{"a-one, a-two and a-three", []string{"a-one", "a-two and a-three"}},
		{"one  two", []string{"one", "two"}},
		{"one\ttwo three", []string{"one\ttwo", "three"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagInput(tt.input))
		})
	}
}

func TestEditStringForTags(t *testing.T) {
	assert.Equal(t, "", EditStringForTags(nil))
	assert.Equal(t, "go plain", EditStringForTags([]string{"go", "plain"}))
	assert.Equal(t, `"has space", go`, EditStringForTags([]string{"has space", "go"}))
	assert.Equal(t, `"a,b" go`, EditStringForTags([]string{"a,b", "go"}))
}

func TestEditStringForTags_RoundTrip(t *testing.T) {
	inputs := [][]string{
		{"django", "python"},
		{"web development", "python"},
		{"one, two", "three"},
		{"one, two", "three four", "five"},
	}
	for _, tags := range inputs {
		assert.Equal(t, uniqueSorted(tags), ParseTagInput(EditStringForTags(tags)))
	}
}

func TestCloud_Logarithmic(t *testing.T) {
	tags := []domain.TagCount{
		{Name: "rare", Count: 1},
		{Name: "some", Count: 4},
		{Name: "common", Count: 16},
	}

	cloud := Cloud(tags, 4, Logarithmic)

	assert.Equal(t, 1, cloud[0].FontSize)
	assert.Equal(t, 2, cloud[1].FontSize)
	assert.Equal(t, 4, cloud[2].FontSize)
	assert.Zero(t, tags[0].FontSize, "input must not be modified")
}

func TestCloud_Linear(t *testing.T) {
	tags := []domain.TagCount{
		{Name: "a", Count: 1},
		{Name: "b", Count: 5},
		{Name: "c", Count: 9},
	}

	cloud := Cloud(tags, 4, Linear)

	assert.Equal(t, 1, cloud[0].FontSize)
	assert.Equal(t, 2, cloud[1].FontSize)
	assert.Equal(t, 4, cloud[2].FontSize)
}

func TestCloud_EqualCounts(t *testing.T) {
	cloud := Cloud([]domain.TagCount{{Name: "a", Count: 3}, {Name: "b", Count: 3}}, 4, Logarithmic)
	for _, c := range cloud {
		assert.Equal(t, 1, c.FontSize)
	}
}

func TestCloud_Empty(t *testing.T) {
	assert.Empty(t, Cloud(nil, 4, Logarithmic))
}

func TestParseDistribution(t *testing.T) {
	assert.Equal(t, Linear, ParseDistribution("LINEAR"))
	assert.Equal(t, Logarithmic, ParseDistribution("log"))
	assert.Equal(t, Logarithmic, ParseDistribution(""))
}
