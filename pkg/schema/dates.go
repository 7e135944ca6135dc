package schema

import "time"

// Date format names accepted in Settings.DateFormat. These are the admin
// vocabulary, not Go layouts; FormatDate translates between the two.
const (
	DateFormatISO        = "yyyy-mm-dd"
	DateFormatUS         = "mm/dd/yyyy"
	DateFormatEU         = "dd/mm/yyyy"
	DateFormatDayMonth   = "dd/mm"
	defaultDateFormatKey = DateFormatISO
)

var dateLayouts = map[string]string{
	DateFormatISO:      "2006-01-02",
	DateFormatUS:       "01/02/2006",
	DateFormatEU:       "02/01/2006",
	DateFormatDayMonth: "02/01",
}

// FormatDate renders t using the admin-configured date format name. Unknown
// or empty names fall back to ISO.
func FormatDate(t time.Time, format string) string {
	layout, ok := dateLayouts[format]
	if !ok {
		layout = dateLayouts[defaultDateFormatKey]
	}
	return t.Format(layout)
}

// DateFormat returns the effective format name for the form's settings.
func (f Form) DateFormat() string {
	if _, ok := dateLayouts[f.Settings.DateFormat]; ok {
		return f.Settings.DateFormat
	}
	return defaultDateFormatKey
}
