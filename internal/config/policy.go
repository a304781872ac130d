package config

import "strings"

// Policy answers the field visibility questions asked while rendering. It is
// built once from VisibilityConfig and passed to the editor; nothing in the
// tree logic reads package-level tables.
type Policy struct {
	hidden      map[string]struct{}
	simple      map[string]struct{}
	gallery     map[string]struct{}
	imageMarker string
}

// NewPolicy builds a Policy from a visibility section.
func NewPolicy(v VisibilityConfig) *Policy {
	return &Policy{
		hidden:      toSet(v.HiddenFields),
		simple:      toSet(v.SimpleFields),
		gallery:     toSet(v.GalleryFields),
		imageMarker: strings.ToLower(v.ImageMarker),
	}
}

// DefaultPolicy is the policy of a default Config.
func DefaultPolicy() *Policy {
	return NewConfig().Policy()
}

// IsHidden reports whether key is an internal field that never renders.
func (p *Policy) IsHidden(key string) bool {
	_, ok := p.hidden[key]
	return ok
}

// IsSimple reports whether key is a plain field without block controls.
func (p *Policy) IsSimple(key string) bool {
	_, ok := p.simple[key]
	return ok
}

// IsImageField reports whether key names an image gallery field.
func (p *Policy) IsImageField(key string) bool {
	if _, ok := p.gallery[key]; ok {
		return true
	}
	return p.imageMarker != "" && strings.Contains(strings.ToLower(key), p.imageMarker)
}

// ShowBlockControls reports whether a field offers the add-block controls.
func (p *Policy) ShowBlockControls(key string) bool {
	return !p.IsHidden(key) && !p.IsSimple(key) && !p.IsImageField(key)
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
