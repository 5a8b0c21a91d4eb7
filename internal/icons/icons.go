// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package icons provides a static lookup of renderable icon keys used by
// the category picker. The mapping is built once at package init;
// unknown keys degrade to "no icon" rather than erroring.
package icons

import (
	"strings"
	"unicode"
)

// names is the curated set of icon keys offered by the admin picker.
var names = []string{
	"Activity", "Anchor", "Aperture", "Archive", "Award",
	"BarChart", "Bell", "Book", "BookOpen", "Bookmark", "Bot", "Box",
	"Briefcase", "Calendar", "Camera", "Clipboard", "Clock", "Cloud",
	"Code", "Coffee", "Compass", "Cpu", "CreditCard", "Database",
	"DollarSign", "Droplet", "Edit", "ExternalLink", "Eye", "Feather",
	"FileText", "Film", "Flag", "Folder", "Gift", "GitBranch", "Github",
	"Globe", "Grid", "HardDrive", "Hash", "Headphones", "Heart", "Home",
	"Image", "Inbox", "Key", "Layers", "Layout", "LifeBuoy", "Link",
	"Lock", "Mail", "Map", "MapPin", "Megaphone", "Mic", "Monitor",
	"Moon", "Music", "Package", "PenTool", "Phone", "PieChart", "Plane",
	"Play", "Printer", "Radio", "Rocket", "Rss", "Search", "Send",
	"Server", "Settings", "Shield", "ShoppingBag", "Smartphone",
	"Speaker", "Star", "Sun", "Tag", "Target", "Terminal", "Thermometer",
	"Tool", "TrendingUp", "Truck", "Tv", "Umbrella", "User", "Users",
	"Video", "Watch", "Wifi", "Wind", "Zap",
}

// byKey maps icon key → CSS class, built once at init.
var byKey = func() map[string]string {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[n] = "icon-" + kebab(n)
	}
	return m
}()

// Names returns all known icon keys in picker order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Valid reports whether key names a known icon.
func Valid(key string) bool {
	_, ok := byKey[key]
	return ok
}

// CSSClass resolves an icon key to its CSS class. Unknown or empty keys
// return "", which templates treat as "render no icon".
func CSSClass(key string) string {
	return byKey[key]
}

// kebab converts a CamelCase icon key to kebab-case.
func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
