package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

type Template string

const (
	TemplateNewRequest Template = "novo_servico"
	TemplateConfirmed  Template = "confirmado"
	TemplateStarted    Template = "iniciado"
	TemplatePaused     Template = "pausado"
	TemplateRestarted  Template = "reiniciado"
	TemplateFinished   Template = "finalizado"
	TemplateCancelled  Template = "cancelado"
)

var headlines = map[Template]string{
	TemplateNewRequest: "um novo serviço foi solicitado.",
	TemplateConfirmed:  "o seu agendamento foi confirmado.",
	TemplateStarted:    "o serviço foi iniciado.",
	TemplatePaused:     "o serviço foi pausado.",
	TemplateRestarted:  "o serviço foi reiniciado.",
	TemplateFinished:   "o serviço foi finalizado.",
	TemplateCancelled:  "o serviço foi cancelado.",
}

const messageTemplate = `Olá {{.Name}}, {{.Headline}}

⛏️ Serviço: {{.Title}}
📅 Data: {{.Date}}
🕝 Hora: {{.Time}}hrs

Acesse o site e confira mais detalhes.`

var messageTmpl = template.Must(template.New("schedule_message").Parse(messageTemplate))

type messageData struct {
	Name     string
	Headline string
	Title    string
	Date     string
	Time     string
}

// FormatDate usa o formato brasileiro dd/MM/yyyy sem conversão de fuso;
// a coluna é DATE, então o dia gravado é o dia exibido.
func FormatDate(s *models.Schedule) string {
	return s.Date.Format("02/01/2006")
}

func Compose(tpl Template, recipient *models.User, s *models.Schedule) (string, error) {
	headline, ok := headlines[tpl]
	if !ok {
		return "", fmt.Errorf("unknown message template %q", tpl)
	}

	data := messageData{
		Name:     recipient.Name,
		Headline: headline,
		Title:    s.Title,
		Date:     FormatDate(s),
		Time:     s.Time,
	}

	var buf bytes.Buffer
	if err := messageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
