// Package tagging parses user tag input and computes weighted tag clouds.
package tagging

import (
	"math"
	"sort"
	"strings"

	"pinax-social-backend/internal/domain"
)

// ParseTagInput splits free-form tag input into a sorted set of tag names.
//
// Double-quoted groups are single tags. Text outside quotes is split on commas
// when any unquoted comma is present, otherwise on single spaces.
func ParseTagInput(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}

	if !strings.ContainsAny(input, `,"`) {
		return uniqueSorted(splitStrip(input, " "))
	}

	var words, chunks []string
	var buffer []rune
	sawComma, openQuote := false, false
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '"' {
			if c == ',' {
				sawComma = true
			}
			buffer = append(buffer, c)
			continue
		}

		if len(buffer) > 0 {
			chunks = append(chunks, string(buffer))
			buffer = buffer[:0]
		}
		openQuote = true
		i++
		for ; i < len(runes) && runes[i] != '"'; i++ {
			buffer = append(buffer, runes[i])
		}
		if i == len(runes) {
			// unterminated quote: the rest is loose text
			break
		}
		if word := strings.TrimSpace(string(buffer)); word != "" {
			words = append(words, word)
		}
		buffer = buffer[:0]
		openQuote = false
	}

	if len(buffer) > 0 {
		if openQuote && strings.ContainsRune(string(buffer), ',') {
			sawComma = true
		}
		chunks = append(chunks, string(buffer))
	}

	delimiter := " "
	if sawComma {
		delimiter = ","
	}
	for _, chunk := range chunks {
		words = append(words, splitStrip(chunk, delimiter)...)
	}
	return uniqueSorted(words)
}

// EditStringForTags formats tags so that ParseTagInput returns them unchanged.
func EditStringForTags(tags []string) string {
	names := make([]string, 0, len(tags))
	useCommas := false
	for _, tag := range tags {
		if strings.ContainsAny(tag, ", ") {
			if strings.Contains(tag, " ") {
				useCommas = true
			}
			names = append(names, `"`+tag+`"`)
			continue
		}
		names = append(names, tag)
	}
	if useCommas {
		return strings.Join(names, ", ")
	}
	return strings.Join(names, " ")
}

func splitStrip(s, delimiter string) []string {
	var out []string
	for _, part := range strings.Split(s, delimiter) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func uniqueSorted(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Distribution selects how tag counts map onto font sizes.
type Distribution string

const (
	Logarithmic Distribution = "logarithmic"
	Linear      Distribution = "linear"
)

// DefaultSteps is the number of font size buckets in a cloud.
const DefaultSteps = 4

// ParseDistribution accepts "log", "logarithmic" or "linear"; anything else is logarithmic.
func ParseDistribution(s string) Distribution {
	if strings.EqualFold(s, string(Linear)) {
		return Linear
	}
	return Logarithmic
}

// Cloud assigns each tag a FontSize between 1 and steps.
func Cloud(tags []domain.TagCount, steps int, distribution Distribution) []domain.TagCount {
	if len(tags) == 0 {
		return tags
	}
	if steps < 1 {
		steps = DefaultSteps
	}

	minWeight, maxWeight := float64(tags[0].Count), float64(tags[0].Count)
	for _, t := range tags[1:] {
		minWeight = math.Min(minWeight, float64(t.Count))
		maxWeight = math.Max(maxWeight, float64(t.Count))
	}

	thresholds := make([]float64, steps)
	delta := (maxWeight - minWeight) / float64(steps)
	for i := range thresholds {
		thresholds[i] = minWeight + float64(i+1)*delta
	}

	out := make([]domain.TagCount, len(tags))
	for i, t := range tags {
		weight := tagWeight(float64(t.Count), maxWeight, distribution)
		t.FontSize = steps
		for step, threshold := range thresholds {
			if weight <= threshold+1e-9 {
				t.FontSize = step + 1
				break
			}
		}
		out[i] = t
	}
	return out
}

func tagWeight(weight, maxWeight float64, distribution Distribution) float64 {
	if distribution == Linear || maxWeight <= 1 {
		return weight
	}
	return math.Log(weight) * maxWeight / math.Log(maxWeight)
}
