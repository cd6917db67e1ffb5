package i18n

// Config lists the languages the portal offers. Values are English language
// names ("Spanish") or BCP 47 tags ("es").
type Config struct {
	DefaultLanguage string
	Languages       []string
	// LabelsPath overrides the embedded interface label catalog.
	LabelsPath string
}
