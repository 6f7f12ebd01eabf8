package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

func sampleSchedule() *models.Schedule {
	return &models.Schedule{
		ID:    42,
		Title: "Instalação de chuveiro",
		Date:  time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Time:  "14:30",
	}
}

func TestComposeEmbedsScheduleData(t *testing.T) {
	recipient := &models.User{Name: "Maria"}
	s := sampleSchedule()

	wording := map[Template]string{
		TemplateNewRequest: "novo serviço foi solicitado",
		TemplateConfirmed:  "confirmado",
		TemplateStarted:    "iniciado",
		TemplatePaused:     "pausado",
		TemplateRestarted:  "reiniciado",
		TemplateFinished:   "finalizado",
		TemplateCancelled:  "cancelado",
	}

	for tpl, word := range wording {
		text, err := Compose(tpl, recipient, s)
		require.NoError(t, err, tpl)

		assert.Contains(t, text, "Olá Maria")
		assert.Contains(t, text, word)
		assert.Contains(t, text, "Instalação de chuveiro")
		assert.Contains(t, text, "05/03/2024")
		assert.Contains(t, text, "14:30hrs")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	recipient := &models.User{Name: "João"}
	a, err := Compose(TemplateFinished, recipient, sampleSchedule())
	require.NoError(t, err)
	b, err := Compose(TemplateFinished, recipient, sampleSchedule())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComposeUnknownTemplate(t *testing.T) {
	_, err := Compose(Template("promo"), &models.User{Name: "x"}, sampleSchedule())
	assert.Error(t, err)
}

func TestFormatDateIgnoresLocalTimezone(t *testing.T) {
	// coluna DATE volta como meia-noite UTC; o dia não pode "voltar" um
	s := &models.Schedule{Date: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "31/12/2024", FormatDate(s))
}
