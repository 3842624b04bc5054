package statecu

import (
	"strconv"
	"strings"
)

// Recognised output option keys.
const (
	PropPrecision  = "Precision"
	PropVersion    = "Version"
	PropAutoAdjust = "AutoAdjust"
	PropTitle      = "Title"
)

const DefaultPrecision = 3

// Props is a string key/value list of output options. Keys are matched
// case-insensitively.
type Props map[string]string

func (p Props) Get(key string) (string, bool) {
	for k, v := range p {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (p Props) Set(key, value string) Props {
	for k := range p {
		if strings.EqualFold(k, key) {
			delete(p, k)
		}
	}
	p[key] = value
	return p
}

// Precision is the number of decimals for curve coefficients, 0..8.
func (p Props) Precision() int {
	v, ok := p.Get(PropPrecision)
	if !ok {
		return DefaultPrecision
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return DefaultPrecision
	}
	if n < 0 {
		return 0
	}
	if n > 8 {
		return 8
	}
	return n
}

func (p Props) Variant() Variant {
	v, _ := p.Get(PropVersion)
	return ParseVariant(v)
}

func (p Props) Version10() bool { return p.Variant() == VariantV10 }

func (p Props) AutoAdjust() bool {
	v, _ := p.Get(PropAutoAdjust)
	b, _ := strconv.ParseBool(strings.TrimSpace(v))
	return b
}

func (p Props) Title(def string) string {
	if v, ok := p.Get(PropTitle); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
