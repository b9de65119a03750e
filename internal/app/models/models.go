package models

// Choice is a stored code paired with its display label
type Choice struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Department codes
const (
	DepartmentBSIT     = "BSIT"
	DepartmentBSED     = "BSED"
	DepartmentBEED     = "BEED"
	DepartmentBSHM     = "BSHM"
	DepartmentBPEd     = "BPEd"
	DepartmentBSEntrep = "BSEntrep"
)

// DepartmentChoices lists the academic programs in display order
var DepartmentChoices = []Choice{
	{Code: DepartmentBSIT, Label: "Bachelor of Science in Information Technology"},
	{Code: DepartmentBSED, Label: "Bachelor of Secondary Education"},
	{Code: DepartmentBEED, Label: "Bachelor of Elementary Education"},
	{Code: DepartmentBSHM, Label: "Bachelor of Science in Hospitality Management"},
	{Code: DepartmentBPEd, Label: "Bachelor of Physical Education"},
	{Code: DepartmentBSEntrep, Label: "Bachelor of Science in Entrepreneurship"},
}

// YearLevelChoices lists the year levels in display order
var YearLevelChoices = []Choice{
	{Code: "1", Label: "1st Year"},
	{Code: "2", Label: "2nd Year"},
	{Code: "3", Label: "3rd Year"},
	{Code: "4", Label: "4th Year"},
}

// GenderChoices lists the supported genders
var GenderChoices = []Choice{
	{Code: "M", Label: "Male"},
	{Code: "F", Label: "Female"},
}

// Urine test results
const (
	UrineTestNormal   = "normal"
	UrineTestAbnormal = "abnormal"
	UrineTestPending  = "pending"
)

// UrineTestChoices lists the urine test results
var UrineTestChoices = []Choice{
	{Code: UrineTestNormal, Label: "Normal"},
	{Code: UrineTestAbnormal, Label: "Abnormal"},
	{Code: UrineTestPending, Label: "Pending"},
}

// Defaults applied when optional input is blank
const (
	DefaultDepartment = DepartmentBSIT
	DefaultYearLevel  = "1"
	DefaultGender     = "M"
	DefaultUrineTest  = UrineTestPending
)

// LabelFor returns the label for code, or the code itself when unknown
func LabelFor(choices []Choice, code string) string {
	for _, c := range choices {
		if c.Code == code {
			return c.Label
		}
	}
	return code
}

// IsChoice reports whether code is one of choices
func IsChoice(choices []Choice, code string) bool {
	for _, c := range choices {
		if c.Code == code {
			return true
		}
	}
	return false
}
