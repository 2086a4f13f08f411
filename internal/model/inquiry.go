package model

// InjuryTypes are the options offered by the case review form.
var InjuryTypes = []string{
	"Car Accident",
	"Truck Accident",
	"Motorcycle Accident",
	"Slip & Fall",
	"Wrongful Death",
	"Medical Malpractice",
	"Workplace Injury",
	"Other",
}

// Case review form limits, in characters.
const (
	InquiryNameMax    = 100
	InquiryEmailMax   = 255
	InquiryPhoneMax   = 20
	InquiryMessageMax = 2000
)

// IsInjuryType reports whether t is one of InjuryTypes.
func IsInjuryType(t string) bool {
	for _, it := range InjuryTypes {
		if it == t {
			return true
		}
	}
	return false
}
