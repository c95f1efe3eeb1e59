package sprite

import "spritec/message"

// MergeImageOccurrences groups image occurrences by sprite id. The first
// occurrence in scan order is authoritative; every redefinition emits one
// warning and is dropped. The returned slice preserves first-seen id order
// so downstream processing is deterministic.
func MergeImageOccurrences(occurrences []*ImageOccurrence, msg *message.Log) (map[string]*ImageOccurrence, []string) {
	byID := make(map[string]*ImageOccurrence, len(occurrences))
	order := make([]string, 0, len(occurrences))

	for _, occ := range occurrences {
		id := occ.Directive.SpriteID
		if _, exists := byID[id]; exists {
			msg.SetCSSFile(occ.CSSFile)
			msg.SetLine(occ.Line)
			msg.Warn("ignoring redefinition of sprite image '%s'", id)
			continue
		}
		byID[id] = occ
		order = append(order, id)
	}
	return byID, order
}

// MergeReferenceOccurrences groups reference occurrences by the sprite id
// they point to, preserving insertion order within each group. That order
// is the later packing order.
func MergeReferenceOccurrences(occurrences []*ReferenceOccurrence) map[string][]*ReferenceOccurrence {
	byID := make(map[string][]*ReferenceOccurrence)
	for _, occ := range occurrences {
		id := occ.Directive.SpriteRef
		byID[id] = append(byID[id], occ)
	}
	return byID
}
