// internal/models/forms.go
package models

// Contact methods offered on the support form.
const (
	ContactMethodDiscord = "discord"
	ContactMethodRoblox  = "roblox"
	ContactMethodEmail   = "email"
	ContactMethodOther   = "other"
)

var contactMethodLabels = map[string]string{
	ContactMethodDiscord: "Discord",
	ContactMethodRoblox:  "Roblox",
	ContactMethodEmail:   "Email",
	ContactMethodOther:   "Other",
}

// ContactMethodLabel returns the display label, or the raw value when unknown.
func ContactMethodLabel(method string) string {
	if label, ok := contactMethodLabels[method]; ok {
		return label
	}
	return method
}

// Weekly availability buckets on the staff application form.
const (
	WeeklyHoursUnderOne  = "0.5-1"
	WeeklyHoursOneToTwo  = "1-2"
	WeeklyHoursThreeFour = "3-4"
	WeeklyHoursFivePlus  = "5+"
)

// MinApplicantAge is enforced at intake.
const MinApplicantAge = 13

// ContactForm is the support form body.
type ContactForm struct {
	Name           string `json:"name"`
	ContactMethod  string `json:"contactMethod"`
	ContactDetails string `json:"contactDetails"`
	Message        string `json:"message"`
}

func (*ContactForm) Type() SubmissionType { return TypeSupport }
func (*ContactForm) isPayload() {}

// StaffApplicationForm is the staff application form body.
type StaffApplicationForm struct {
	FullName        string `json:"fullName"`
	Age             string `json:"age"`
	DiscordUsername string `json:"discordUsername"`
	RobloxUsername  string `json:"robloxUsername"`
	Timezone        string `json:"timezone"`
	Position        string `json:"position"`
	Experience      string `json:"experience"`
	WeeklyHours     string `json:"weeklyHours"`
	Motivation      string `json:"motivation"`
	Scenario        string `json:"scenario"`
	AdditionalInfo  string `json:"additionalInfo"`
	AgreedToRules   bool   `json:"agreedToRules"`
}

func (*StaffApplicationForm) Type() SubmissionType { return TypeStaffApplication }
func (*StaffApplicationForm) isPayload() {}
