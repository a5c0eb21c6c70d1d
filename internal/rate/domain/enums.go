package domain

type InterpreterType string

const (
	InterpreterTypeProfessional   InterpreterType = "professional_interpreter"
	InterpreterTypeLanguageBuddy  InterpreterType = "language_buddy_interpreter"
	InterpreterTypeCorporateStaff InterpreterType = "corporate_staff_interpreter"
)

type SchedulingType string

const (
	SchedulingTypeOnDemand  SchedulingType = "on_demand"
	SchedulingTypePreBooked SchedulingType = "pre_booked"
)

type CommunicationType string

const (
	CommunicationTypeAudio  CommunicationType = "audio"
	CommunicationTypeVideo  CommunicationType = "video"
	CommunicationTypeOnSite CommunicationType = "on_site"
)

type InterpretingType string

const (
	InterpretingTypeConsecutive  InterpretingType = "consecutive"
	InterpretingTypeSignLanguage InterpretingType = "sign_language"
	InterpretingTypeEscort       InterpretingType = "escort"
	InterpretingTypeSimultaneous InterpretingType = "simultaneous"
)

// IsFlatRate reports whether the interpreting type is priced without time
// windows or blocks.
func (t InterpretingType) IsFlatRate() bool {
	return t == InterpretingTypeEscort || t == InterpretingTypeSimultaneous
}

// RateQualifier names the daily window a rate row applies to.
type RateQualifier string

const (
	RateQualifierStandardHours RateQualifier = "standard_hours"
	RateQualifierAfterHours    RateQualifier = "after_hours"
)

// Opposite returns the other window.
func (q RateQualifier) Opposite() RateQualifier {
	if q == RateQualifierStandardHours {
		return RateQualifierAfterHours
	}
	return RateQualifierStandardHours
}

// RateDetailSequence tells the included first tier apart from the repeating
// overflow tier.
type RateDetailSequence string

const (
	RateDetailSequenceFirstMinutes    RateDetailSequence = "first_minutes"
	RateDetailSequenceAdditionalBlock RateDetailSequence = "additional_block"
)

type Topic string

const (
	TopicGeneral        Topic = "general"
	TopicLegal          Topic = "legal"
	TopicMedical        Topic = "medical"
	TopicBusiness       Topic = "business"
	TopicEducation      Topic = "education"
	TopicGovernment     Topic = "government"
	TopicSocialServices Topic = "social_services"
	TopicCommunity      Topic = "community"
	TopicOther          Topic = "other"
)

// Topics lists every appointment topic.
var Topics = []Topic{
	TopicGeneral,
	TopicLegal,
	TopicMedical,
	TopicBusiness,
	TopicEducation,
	TopicGovernment,
	TopicSocialServices,
	TopicCommunity,
	TopicOther,
}

// PriceFor is the party a price is computed for.
type PriceFor string

const (
	PriceForClient      PriceFor = "client"
	PriceForInterpreter PriceFor = "interpreter"
)
