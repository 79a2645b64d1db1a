package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/anuruddha96/hotelcare-backend/internal/config"
	"github.com/anuruddha96/hotelcare-backend/internal/repositories"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

// ManagerNotifier delivers operationally significant alerts to the hotel's
// managers. Delivery is best-effort: failures are logged, never propagated
// into the workflow that triggered them.
type ManagerNotifier interface {
	NotifyManagers(ctx context.Context, hotelID uuid.UUID, title, body string)
}

type managerNotifier struct {
	cfg       *config.Config
	staffRepo repositories.StaffRepository
	twClient  *twilio.RestClient
	sgClient  *sendgrid.Client
}

func NewManagerNotifier(
	cfg *config.Config,
	staffRepo repositories.StaffRepository,
	twClient *twilio.RestClient,
	sgClient *sendgrid.Client,
) ManagerNotifier {
	return &managerNotifier{
		cfg:       cfg,
		staffRepo: staffRepo,
		twClient:  twClient,
		sgClient:  sgClient,
	}
}

func (n *managerNotifier) NotifyManagers(ctx context.Context, hotelID uuid.UUID, title, body string) {
	managers, err := n.staffRepo.ListManagersByHotel(ctx, hotelID)
	if err != nil {
		utils.Logger.WithError(err).Error("NotifyManagers: list managers failed")
		return
	}
	if len(managers) == 0 {
		utils.Logger.Warnf("NotifyManagers: no active managers for hotel %s", hotelID)
		return
	}

	for _, m := range managers {
		// ---------- Twilio SMS ----------
		if n.twClient != nil && m.Phone != "" {
			params := &twilioApi.CreateMessageParams{}
			params.SetTo(m.Phone)
			params.SetFrom(n.cfg.LDFlag_TwilioFromPhone)
			params.SetBody(title + " :: " + body)
			if _, smsErr := n.twClient.Api.CreateMessage(params); smsErr != nil {
				utils.Logger.WithError(smsErr).Warnf("Failed to send manager SMS to %s", m.ID)
			}
		}

		// ---------- SendGrid Email ----------
		if n.sgClient != nil && m.Email != "" {
			from := mail.NewEmail(n.cfg.OrganizationName, n.cfg.LDFlag_SendgridFromEmail)
			to := mail.NewEmail(m.Name, m.Email)
			msg := mail.NewSingleEmail(from, title, to, body, "<p>"+body+"</p>")
			if n.cfg.LDFlag_SendgridSandboxMode {
				ms := mail.NewMailSettings()
				ms.SetSandboxMode(mail.NewSetting(true))
				msg.MailSettings = ms
			}
			if _, sgErr := n.sgClient.Send(msg); sgErr != nil {
				utils.Logger.WithError(sgErr).Warnf("Failed to send manager email to %s", m.ID)
			}
		}
	}

	utils.Logger.Infof("Notified %d manager(s) for hotel %s: %s", len(managers), hotelID, title)
}
