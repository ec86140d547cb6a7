package services

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Transactional mail is best effort: the DB is the source of truth, and a
// missing SendGrid config or a failed send never fails the request.

var mailEnabled = true

// SetMailEnabled toggles outgoing mail. Disabled installs send nothing
// regardless of SendGrid configuration.
func SetMailEnabled(enabled bool) {
	mailEnabled = enabled
}

func SendWelcomeEmail(email string) {
	subject := "Добро пожаловать в Voice Chef"
	body := fmt.Sprintf(`Здравствуйте!

Ваш аккаунт %s создан. Добавляйте блюда, рецепты и слушайте шаги
приготовления прямо в приложении.

Бесплатный тариф: до 15 блюд и 3 рецептов на блюдо.`, email)

	sendMail(email, subject, body)
}

func SendUpgradeEmail(email string) {
	subject := "Премиум подписка активирована"
	body := fmt.Sprintf(`Здравствуйте!

Премиум подписка для %s активна. Теперь доступно до 45 блюд,
5 рецептов на блюдо и фото до 10 МБ.`, email)

	sendMail(email, subject, body)
}

func sendMail(toEmail, subject, body string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Mailer panic recovered: %v\n", r)
		}
	}()

	if !mailEnabled {
		return
	}

	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("MAIL_FROM")
	if apiKey == "" || fromEmail == "" {
		fmt.Println("Missing SendGrid config, skipping email")
		return
	}

	from := mail.NewEmail("Voice Chef", fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(message)
	if err != nil {
		fmt.Printf("Error sending email: %v\n", err)
	} else {
		fmt.Printf("Email sent. Status Code: %d\n", response.StatusCode)
	}
}
