// Package desktop parses freedesktop.org desktop entry files.
//
// Only the [Desktop Entry] group is modelled, as an Entry record with an
// explicit field per key mimer cares about. Localized keys (Name[de_DE])
// are resolved once at parse time using the desktop-entry matching rules:
// for a locale lang_COUNTRY.ENCODING@MODIFIER the lookup order is
// lang_COUNTRY@MODIFIER, lang_COUNTRY, lang@MODIFIER, lang, then the
// unsuffixed key.
package desktop
