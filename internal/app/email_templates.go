package app

import (
	"strings"

	"careers/internal/domain"
)

// EmailTemplate is a canned candidate email. Subject and Body may contain
// the {firstName} and {jobTitle} placeholders.
type EmailTemplate struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const (
	TemplateAcknowledgment = "acknowledgment"
	TemplateInterview      = "interview"
	TemplateRejection      = "rejection"
	TemplateOffer          = "offer"
)

var emailTemplates = []EmailTemplate{
	{
		Key:     TemplateAcknowledgment,
		Name:    "Application Received",
		Subject: "Thank you for your application",
		Body: `Dear {firstName},

Thank you for your interest in the {jobTitle} position at TechCorp. We have received your application and are currently reviewing it.

We will be in touch within the next 5-7 business days to update you on the status of your application.

If you have any questions in the meantime, please don't hesitate to reach out.

Best regards,
The TechCorp Hiring Team`,
	},
	{
		Key:     TemplateInterview,
		Name:    "Interview Invitation",
		Subject: "Interview Invitation - {jobTitle}",
		Body: `Dear {firstName},

We are pleased to inform you that we would like to invite you for an interview for the {jobTitle} position.

Please reply to this email with your availability for the coming week, and we will schedule a time that works for both parties.

The interview will be conducted via video call and should take approximately 45 minutes.

We look forward to speaking with you soon.

Best regards,
The TechCorp Hiring Team`,
	},
	{
		Key:     TemplateRejection,
		Name:    "Application Update",
		Subject: "Update on your application - {jobTitle}",
		Body: `Dear {firstName},

Thank you for your interest in the {jobTitle} position at TechCorp and for taking the time to apply.

After careful consideration, we have decided to move forward with other candidates whose experience more closely matches our current needs.

We appreciate the time you invested in the application process and encourage you to apply for future opportunities that match your skills and interests.

Best regards,
The TechCorp Hiring Team`,
	},
	{
		Key:     TemplateOffer,
		Name:    "Job Offer",
		Subject: "Job Offer - {jobTitle}",
		Body: `Dear {firstName},

We are excited to extend an offer for the {jobTitle} position at TechCorp!

We were impressed by your qualifications and believe you would be a great addition to our team.

Please find the detailed offer letter attached. We would like to schedule a call to discuss the details and answer any questions you may have.

Please let us know your availability for a call this week.

Congratulations and we look forward to hearing from you!

Best regards,
The TechCorp Hiring Team`,
	},
}

// statusTemplates maps a new application status to the email sent with it.
var statusTemplates = map[domain.ApplicationStatus]string{
	domain.StatusReviewing: TemplateAcknowledgment,
	domain.StatusAccepted:  TemplateInterview,
	domain.StatusRejected:  TemplateRejection,
}

// Templates returns every email template in display order.
func Templates() []EmailTemplate {
	out := make([]EmailTemplate, len(emailTemplates))
	copy(out, emailTemplates)
	return out
}

// LookupTemplate returns the template with the given key.
func LookupTemplate(key string) (EmailTemplate, bool) {
	for _, t := range emailTemplates {
		if t.Key == key {
			return t, true
		}
	}
	return EmailTemplate{}, false
}

// TemplateForStatus returns the template key sent when an application moves
// to status. Pending has none.
func TemplateForStatus(status domain.ApplicationStatus) (string, bool) {
	key, ok := statusTemplates[status]
	return key, ok
}

// Rendered is a template with its placeholders filled in.
type Rendered struct {
	TemplateKey string `json:"template_key"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// Render fills the {firstName} and {jobTitle} placeholders. Empty values
// fall back to "Candidate" and "the position".
func Render(t EmailTemplate, firstName, jobTitle string) Rendered {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		firstName = "Candidate"
	}
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		jobTitle = "the position"
	}
	r := strings.NewReplacer("{firstName}", firstName, "{jobTitle}", jobTitle)
	return Rendered{
		TemplateKey: t.Key,
		Subject:     r.Replace(t.Subject),
		Body:        r.Replace(t.Body),
	}
}
