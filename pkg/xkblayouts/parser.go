package xkblayouts

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

func ParseLayouts(path string) (*XkbConfigRegistry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

func Decode(r io.Reader) (*XkbConfigRegistry, error) {
	registry := &XkbConfigRegistry{}
	if err := xml.NewDecoder(r).Decode(registry); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	return registry, nil
}

func (r *XkbConfigRegistry) findLayout(code string) (Layout, bool) {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name == code {
			return l, true
		}
	}

	return Layout{}, false
}

func (r *XkbConfigRegistry) HasLayout(code string) bool {
	_, ok := r.findLayout(code)
	return ok
}

// Description returns the human readable name of a layout code, e.g.
// "Persian" for "ir". Unknown codes yield an empty string.
func (r *XkbConfigRegistry) Description(code string) string {
	l, ok := r.findLayout(code)
	if !ok {
		return ""
	}

	return l.ConfigItem.Description
}

// UnknownLayouts returns the codes that the registry does not define.
func (r *XkbConfigRegistry) UnknownLayouts(codes []string) []string {
	var unknown []string
	for _, code := range codes {
		if !r.HasLayout(code) {
			unknown = append(unknown, code)
		}
	}

	return unknown
}
