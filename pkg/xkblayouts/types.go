package xkblayouts

import "encoding/xml"

// XkbConfigRegistry mirrors the subset of evdev.xml needed to resolve layout
// codes.
type XkbConfigRegistry struct {
	XMLName    xml.Name   `xml:"xkbConfigRegistry"`
	Version    string     `xml:"version,attr"`
	LayoutList LayoutList `xml:"layoutList"`
}

type ConfigItem struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
}

type Variant struct {
	ConfigItem ConfigItem `xml:"configItem"`
}

type VariantList struct {
	Variant []Variant `xml:"variant"`
}

type Layout struct {
	ConfigItem  ConfigItem  `xml:"configItem"`
	VariantList VariantList `xml:"variantList"`
}

type LayoutList struct {
	Layout []Layout `xml:"layout"`
}
