package hunlint

import "strings"

// Morphological field tags (Hunspell morphological generation convention).
const (
	TagStem                 = "st:"
	TagAllomorph            = "al:"
	TagPartOfSpeech         = "po:"
	TagDerivationalPrefix   = "dp:"
	TagInflectionalPrefix   = "ip:"
	TagTerminalPrefix       = "tp:"
	TagDerivationalSuffix   = "ds:"
	TagInflectionalSuffix   = "is:"
	TagTerminalSuffix       = "ts:"
	TagSurfacePrefix        = "sp:"
	TagFrequency            = "fr:"
	TagPhonetic             = "ph:"
	TagHyphenation          = "hy:"
	TagPart                 = "pa:"
	TagFlag                 = "fl:"
	TagSegmentationBoundary = "sb:"
)

var morphTags = map[string]bool{
	TagStem: true, TagAllomorph: true, TagPartOfSpeech: true,
	TagDerivationalPrefix: true, TagInflectionalPrefix: true, TagTerminalPrefix: true,
	TagDerivationalSuffix: true, TagInflectionalSuffix: true, TagTerminalSuffix: true,
	TagSurfacePrefix: true, TagFrequency: true, TagPhonetic: true,
	TagHyphenation: true, TagPart: true, TagFlag: true, TagSegmentationBoundary: true,
}

// isMorphField reports whether f looks like "xx:value" with a known tag.
func isMorphField(f string) bool {
	return len(f) > 3 && morphTags[f[:3]]
}

// hasTag reports whether any field carries tag.
func hasTag(fields []string, tag string) bool {
	for _, f := range fields {
		if strings.HasPrefix(f, tag) {
			return true
		}
	}
	return false
}

// combineMorphFields derives the fields of a production from its parent's
// and the applied entry's. The parent's inflectional and terminal fields of
// the same side are consumed by any further derivation; the part of speech
// is replaced when the entry supplies one.
func combineMorphFields(parent, entry []string, typ AffixType) []string {
	inflectional, terminal := TagInflectionalSuffix, TagTerminalSuffix
	if typ == Prefix {
		inflectional, terminal = TagInflectionalPrefix, TagTerminalPrefix
	}
	replacePOS := hasTag(entry, TagPartOfSpeech)
	out := make([]string, 0, len(parent)+len(entry))
	for _, f := range parent {
		switch {
		case strings.HasPrefix(f, inflectional), strings.HasPrefix(f, terminal):
			continue
		case replacePOS && strings.HasPrefix(f, TagPartOfSpeech):
			continue
		}
		out = append(out, f)
	}
	out = append(out, entry...)
	if len(out) == 0 {
		return nil
	}
	return out
}
