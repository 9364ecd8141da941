package mapping

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"erp-import-platform/internal/models"
)

// fuzzyThreshold is the maximum accepted match distance on a 0-1 scale
// (lower is better)
const fuzzyThreshold = 0.4

// minFuzzyHeaderLength excludes very short headers from fuzzy matching
const minFuzzyHeaderLength = 3

// descriptionPenalty weights description-token matches below direct
// name/apiName matches
const descriptionPenalty = 1.2

var normalizer = strings.NewReplacer(" ", "", "\t", "", "_", "", "-", "")

// Normalize prepares a string for comparison: lowercase with whitespace,
// underscores and hyphens stripped. Display values are never normalized.
func Normalize(s string) string {
	return normalizer.Replace(strings.ToLower(s))
}

type claim struct {
	index      int
	confidence models.MatchConfidence
}

type claimTable struct {
	claims   map[string]claim
	mappings []models.FieldMapping
}

// tryClaim assigns targetField to the source at sourceIndex unless a
// same-or-higher confidence mapping already holds it. A strictly higher
// confidence steals the claim, unclaiming the previous owner.
func (t *claimTable) tryClaim(sourceIndex int, targetField string, confidence models.MatchConfidence) bool {
	existing, claimed := t.claims[targetField]
	if claimed {
		if confidence.Priority() <= existing.confidence.Priority() {
			return false
		}
		t.mappings[existing.index].TargetField = ""
		t.mappings[existing.index].Confidence = models.ConfidenceNone
	}

	t.claims[targetField] = claim{index: sourceIndex, confidence: confidence}
	t.mappings[sourceIndex].TargetField = targetField
	t.mappings[sourceIndex].Confidence = confidence
	return true
}

// AutoMap maps source column headers to target entity fields in three
// ordered passes: exact (normalized header equals a field's apiName or
// name), alias (normalized header found in the alias table), and fuzzy
// (approximate matching against fields not yet claimed). Each target field
// is claimed by at most one source column.
func AutoMap(sourceHeaders []string, fields []models.EntityField, aliases models.AliasMap) []models.FieldMapping {
	table := &claimTable{
		claims:   make(map[string]claim),
		mappings: make([]models.FieldMapping, len(sourceHeaders)),
	}
	for i, header := range sourceHeaders {
		table.mappings[i] = models.FieldMapping{
			SourceColumn: header,
			Confidence:   models.ConfidenceNone,
		}
	}

	fieldsByNormalized := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		fieldsByNormalized[Normalize(f.APIName)] = f.APIName
		fieldsByNormalized[Normalize(f.Name)] = f.APIName
	}

	aliasesByNormalized := make(map[string]string, len(aliases))
	for alias, target := range aliases {
		aliasesByNormalized[Normalize(alias)] = target
	}

	// Pass 1: exact match
	for i, header := range sourceHeaders {
		if target, ok := fieldsByNormalized[Normalize(header)]; ok {
			table.tryClaim(i, target, models.ConfidenceExact)
		}
	}

	// Pass 2: alias match
	for i, header := range sourceHeaders {
		if table.mappings[i].TargetField != "" {
			continue
		}
		if target, ok := aliasesByNormalized[Normalize(header)]; ok {
			table.tryClaim(i, target, models.ConfidenceAlias)
		}
	}

	// Pass 3: fuzzy match against unclaimed fields only
	for i, header := range sourceHeaders {
		if table.mappings[i].TargetField != "" || len(header) < minFuzzyHeaderLength {
			continue
		}

		bestTarget := ""
		bestDistance := 1.0
		for _, f := range fields {
			if _, claimed := table.claims[f.APIName]; claimed {
				continue
			}
			if d := fuzzyDistance(header, f); d < bestDistance {
				bestDistance = d
				bestTarget = f.APIName
			}
		}

		if bestTarget != "" && bestDistance <= fuzzyThreshold {
			table.tryClaim(i, bestTarget, models.ConfidenceFuzzy)
		}
	}

	return table.mappings
}

// fuzzyDistance scores a header against one field on a 0-1 scale using
// normalized edit distance over the field's name, apiName and description
// tokens. Description tokens carry a small penalty so direct name matches
// win ties.
func fuzzyDistance(header string, field models.EntityField) float64 {
	normalized := Normalize(header)
	best := 1.0

	for _, candidate := range []string{field.Name, field.APIName} {
		if d := normalizedDistance(normalized, Normalize(candidate)); d < best {
			best = d
		}
	}

	for _, token := range strings.Fields(field.Description) {
		d := normalizedDistance(normalized, Normalize(token)) * descriptionPenalty
		if d < best {
			best = d
		}
	}

	return best
}

func normalizedDistance(a, b string) float64 {
	if a == "" || b == "" {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// UpdateMapping applies a manual target-field change to the mapping at
// index, clearing that target from any other mapping currently holding it
// so the single-owner invariant holds. An empty target unmaps the column.
func UpdateMapping(mappings []models.FieldMapping, index int, targetField string) {
	if index < 0 || index >= len(mappings) {
		return
	}

	if targetField != "" {
		for i := range mappings {
			if i != index && mappings[i].TargetField == targetField {
				mappings[i].TargetField = ""
				mappings[i].Confidence = models.ConfidenceNone
			}
		}
	}

	mappings[index].TargetField = targetField
	if targetField == "" {
		mappings[index].Confidence = models.ConfidenceNone
		return
	}
	// A deliberate assignment outranks any automatic match
	mappings[index].Confidence = models.ConfidenceExact
	mappings[index].Ignored = false
}

// SampleValues returns up to max unique non-empty values of one column,
// in row order
func SampleValues(rows []map[string]string, column string, max int) []string {
	seen := make(map[string]struct{})
	var samples []string
	for _, row := range rows {
		val := strings.TrimSpace(row[column])
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		samples = append(samples, val)
		if len(samples) >= max {
			break
		}
	}
	return samples
}
