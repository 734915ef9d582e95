package hunlint

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/unicode/norm"
)

// newIgnoreReplacer returns a replacer deleting every character of chars,
// or nil when chars is empty.
func newIgnoreReplacer(chars string) *strings.Replacer {
	if chars == "" {
		return nil
	}
	var pairs []string
	for _, r := range chars {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}

// StripIgnored removes the IGNORE characters from s.
func (d *AffixData) StripIgnored(s string) string {
	if d.ignore == nil {
		return s
	}
	return d.ignore.Replace(s)
}

// hunspellCharsets maps the SET names Hunspell accepts to IANA names.
var hunspellCharsets = map[string]string{
	"MICROSOFT-CP1251": "windows-1251",
	"TIS620-2533":      "TIS-620",
}

// charsetDecoder returns the decoder for a SET value, or nil for UTF-8.
func charsetDecoder(charset string) (*encoding.Decoder, error) {
	name := strings.ToUpper(strings.TrimSpace(charset))
	switch name {
	case "", "UTF-8", "UTF8":
		return nil, nil
	}
	if alias, ok := hunspellCharsets[name]; ok {
		name = alias
	} else if rest, ok := strings.CutPrefix(name, "ISO8859-"); ok {
		name = "ISO-8859-" + rest
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder(), nil
}

// decodeText converts raw file content in charset to NFC UTF-8.
func decodeText(raw []byte, charset string) (string, error) {
	dec, err := charsetDecoder(charset)
	if err != nil {
		return "", err
	}
	if dec != nil {
		if raw, err = dec.Bytes(raw); err != nil {
			return "", fmt.Errorf("decode %s: %w", charset, err)
		}
	}
	raw = stripBOM(raw)
	return norm.NFC.String(string(raw)), nil
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
