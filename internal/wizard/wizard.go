// Package wizard implements the ten-step listing submission flow as an
// explicit state machine. The step sequence is a directed graph: forward
// transitions carry skip edges computed from the current room selection, and
// going back pops a history stack of visited steps, so backward navigation
// is symmetric with whatever path was actually taken forward.
package wizard

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/plink/plink/internal/model"
)

// Step identifies a wizard step.
type Step int

// Steps, in nominal order. Interior and exterior features are skipped when
// the room selection has no rooms of the matching kind.
const (
	StepContact Step = iota + 1
	StepAddress
	StepPhotos
	StepPropertyType
	StepStyle
	StepRooms
	StepInterior
	StepExterior
	StepVideo
	StepReview
)

// FirstStep and LastStep bound the valid step range.
const (
	FirstStep = StepContact
	LastStep  = StepReview
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepAddress:
		return "address"
	case StepPhotos:
		return "photos"
	case StepPropertyType:
		return "property-type"
	case StepStyle:
		return "style"
	case StepRooms:
		return "rooms"
	case StepInterior:
		return "interior-features"
	case StepExterior:
		return "exterior-features"
	case StepVideo:
		return "video"
	case StepReview:
		return "review"
	}
	return fmt.Sprintf("step-%d", int(s))
}

// ValidationError reports a failed step validation. The session stays on the
// current step; the message is shown to the user.
type ValidationError struct {
	Step    Step
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Form is the accumulated wizard state across all steps.
type Form struct {
	// Step 1: contact and account details.
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	PasswordHash    string `json:"passwordHash,omitempty"`

	// Step 2: address.
	Street   string `json:"street"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`

	// Step 3: uploaded photos (media URLs from the upload endpoint).
	ImageURLs []string `json:"imageUrls"`

	// Steps 4-8: taxonomy.
	PropertyType      string   `json:"propertyType"`
	PropertyStyleTags []string `json:"propertyStyleTags"`
	Rooms             []string `json:"rooms"`
	InteriorFeatures  []string `json:"interiorFeatures"`
	ExteriorFeatures  []string `json:"exteriorFeatures"`

	// Step 9: optional video.
	VideoURL string `json:"videoUrl"`

	// Step 10: review.
	Description   string `json:"description"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// Update is a partial form patch. Nil fields are left untouched, so a step
// submission only needs to carry its own fields.
type Update struct {
	FullName        *string `json:"fullName"`
	Email           *string `json:"email"`
	PhoneNumber     *string `json:"phoneNumber"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`

	Street   *string `json:"street"`
	City     *string `json:"city"`
	Postcode *string `json:"postcode"`

	ImageURLs *[]string `json:"imageUrls"`

	PropertyType      *string   `json:"propertyType"`
	PropertyStyleTags *[]string `json:"propertyStyleTags"`
	Rooms             *[]string `json:"rooms"`
	InteriorFeatures  *[]string `json:"interiorFeatures"`
	ExteriorFeatures  *[]string `json:"exteriorFeatures"`

	VideoURL      *string `json:"videoUrl"`
	Description   *string `json:"description"`
	TermsAccepted *bool   `json:"termsAccepted"`
}

// Session is one in-progress wizard run.
type Session struct {
	Step    Step   `json:"step"`
	History []Step `json:"history"`
	Form    Form   `json:"form"`
}

// NewSession starts a wizard run at the first step.
func NewSession() *Session {
	return &Session{Step: FirstStep}
}

// Apply merges a partial update into the form. Changing the room selection
// prunes feature tags whose group is no longer offered, keeping the
// room→feature derivation consistent.
func (s *Session) Apply(u Update) {
	f := &s.Form

	setString(&f.FullName, u.FullName)
	setString(&f.Email, u.Email)
	setString(&f.PhoneNumber, u.PhoneNumber)
	setString(&f.Password, u.Password)
	setString(&f.ConfirmPassword, u.ConfirmPassword)
	setString(&f.Street, u.Street)
	setString(&f.City, u.City)
	setString(&f.Postcode, u.Postcode)
	setString(&f.PropertyType, u.PropertyType)
	setString(&f.VideoURL, u.VideoURL)
	setString(&f.Description, u.Description)

	if u.ImageURLs != nil {
		f.ImageURLs = *u.ImageURLs
	}
	if u.PropertyStyleTags != nil {
		f.PropertyStyleTags = *u.PropertyStyleTags
	}
	if u.InteriorFeatures != nil {
		f.InteriorFeatures = *u.InteriorFeatures
	}
	if u.ExteriorFeatures != nil {
		f.ExteriorFeatures = *u.ExteriorFeatures
	}
	if u.TermsAccepted != nil {
		f.TermsAccepted = *u.TermsAccepted
	}

	if u.Rooms != nil {
		f.Rooms = *u.Rooms
		f.InteriorFeatures = pruneFeatures(f.InteriorFeatures, f.Rooms, true)
		f.ExteriorFeatures = pruneFeatures(f.ExteriorFeatures, f.Rooms, false)
	}
}

// Next validates the current step and advances along the step graph. On a
// validation failure the session does not move and the error carries the
// user-facing message.
func (s *Session) Next() error {
	if s.Step >= LastStep {
		return &ValidationError{Step: s.Step, Message: "already at the final step"}
	}

	if err := s.validate(); err != nil {
		return err
	}

	if s.Step == StepContact {
		s.sealPassword()
	}

	next := s.Step + 1

	// Skip edges: the features steps only exist for matching room kinds.
	if s.Step == StepRooms && !model.HasInteriorRoom(s.Form.Rooms) {
		next = StepExterior
	}
	if next == StepExterior && !model.HasExteriorRoom(s.Form.Rooms) {
		next = StepVideo
	}

	s.History = append(s.History, s.Step)
	s.Step = next
	return nil
}

// Back returns to the previously visited step by popping the history stack.
// At the first step it is a no-op.
func (s *Session) Back() {
	if len(s.History) == 0 {
		return
	}
	s.Step = s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
}

// Features returns the interior and exterior feature groups offered for the
// current room selection.
func (s *Session) Features() (interior, exterior map[string][]string) {
	return model.FeatureGroups(s.Form.Rooms, true), model.FeatureGroups(s.Form.Rooms, false)
}

// Submit validates the terminal step and assembles the listing payload.
// The session is left intact so a failed submission can be retried.
func (s *Session) Submit() (*model.Location, error) {
	if s.Step != StepReview {
		return nil, &ValidationError{Step: s.Step, Message: "complete all steps before submitting"}
	}
	if !s.Form.TermsAccepted {
		return nil, &ValidationError{Step: s.Step, Message: "you must accept the terms and conditions"}
	}

	f := s.Form
	return &model.Location{
		FullName:          f.FullName,
		Email:             f.Email,
		PhoneNumber:       f.PhoneNumber,
		Street:            f.Street,
		City:              f.City,
		Postcode:          f.Postcode,
		PropertyType:      f.PropertyType,
		PropertyStyleTags: f.PropertyStyleTags,
		Rooms:             f.Rooms,
		InteriorFeatures:  f.InteriorFeatures,
		ExteriorFeatures:  f.ExteriorFeatures,
		Description:       f.Description,
		ImageURLs:         f.ImageURLs,
		VideoURL:          f.VideoURL,
	}, nil
}

// validate checks the current step's required fields.
func (s *Session) validate() error {
	f := s.Form
	fail := func(msg string) error {
		return &ValidationError{Step: s.Step, Message: msg}
	}

	switch s.Step {
	case StepContact:
		if f.FullName == "" || f.Email == "" {
			return fail("full name and email are required")
		}
		if f.PasswordHash == "" {
			if f.Password == "" {
				return fail("a password is required")
			}
			if f.Password != f.ConfirmPassword {
				return fail("password and confirm password must match before proceeding")
			}
			if err := model.ValidatePassword(f.Password); err != nil {
				return fail(err.Error())
			}
		}
	case StepAddress:
		if f.Street == "" || f.City == "" || f.Postcode == "" {
			return fail("street, city and postcode are required")
		}
	case StepPropertyType:
		if f.PropertyType == "" {
			return fail("which one looks like your property?")
		}
		if !model.ValidPropertyType(f.PropertyType) {
			return fail("unknown property type")
		}
	case StepStyle:
		if len(f.PropertyStyleTags) == 0 {
			return fail("what style & era is your property?")
		}
	case StepRooms:
		if len(f.Rooms) == 0 {
			return fail("what rooms do you have?")
		}
	}
	return nil
}

// sealPassword replaces the transient plaintext password with its hash once
// the contact step validates, so session state never persists a plaintext
// credential.
func (s *Session) sealPassword() {
	if s.Form.Password == "" {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Form.Password), bcrypt.DefaultCost)
	if err == nil {
		s.Form.PasswordHash = string(hash)
	}
	s.Form.Password = ""
	s.Form.ConfirmPassword = ""
}

// pruneFeatures drops selected features whose group is no longer offered by
// the room selection.
func pruneFeatures(features, rooms []string, interior bool) []string {
	if len(features) == 0 {
		return features
	}
	allowed := model.AllowedFeatures(rooms, interior)
	kept := features[:0]
	for _, f := range features {
		if allowed[f] {
			kept = append(kept, f)
		}
	}
	return kept
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
