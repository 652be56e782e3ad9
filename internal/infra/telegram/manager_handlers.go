package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/dailymenu"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterManagerHandlers wires the manager-facing bot commands. Only the
// configured manager chat gets answers; everyone else is told this is a
// private bot.
func RegisterManagerHandlers(
	b *telebot.Bot,
	menuService *app.DailyMenuService,
	managerChatID int64,
	baseLogger *logrus.Entry,
) {
	logger := baseLogger.WithField("handler_group", "manager")

	guard := func(c telebot.Context) bool {
		return c.Sender() != nil && c.Sender().ID == managerChatID
	}

	b.Handle("/start", func(c telebot.Context) error {
		if !guard(c) {
			return c.Send("Este bot es privado.")
		}
		logger.WithField("command", "/start").Info("Processing /start command")
		return c.Send(fmt.Sprintf("Hola, %s. Te avisaré cuando falte el menú de mañana. Usa /help para ver los comandos.", c.Sender().FirstName))
	})

	b.Handle("/help", func(c telebot.Context) error {
		if !guard(c) {
			return c.Send("Este bot es privado.")
		}
		var help strings.Builder
		help.WriteString("Comandos disponibles:\n\n")
		help.WriteString("`/hoy` - Ver el menú del día de hoy.\n")
		help.WriteString("`/manana` - Ver el menú programado para mañana.\n")
		help.WriteString("`/help` - Mostrar este mensaje.")
		return c.Send(help.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/hoy", func(c telebot.Context) error {
		if !guard(c) {
			return c.Send("Este bot es privado.")
		}
		return sendMenuForDay(c, menuService, time.Now(), logger.WithField("command", "/hoy"))
	})

	b.Handle("/manana", func(c telebot.Context) error {
		if !guard(c) {
			return c.Send("Este bot es privado.")
		}
		return sendMenuForDay(c, menuService, time.Now().AddDate(0, 0, 1), logger.WithField("command", "/manana"))
	})
}

func sendMenuForDay(c telebot.Context, menuService *app.DailyMenuService, day time.Time, logCtx *logrus.Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	menus, err := menuService.ListMenus(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list menus for bot command")
		return c.Send("No he podido consultar los menús. Inténtalo de nuevo en un momento.")
	}

	target := dailymenu.NormalizeDay(day)
	for _, m := range menus {
		if m.Date.Equal(target) {
			return c.Send(formatMenu(m), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}
	}

	return c.Send(fmt.Sprintf("No hay menú programado para el %s.", target.Format(dailymenu.DayFormat)))
}

func formatMenu(m *dailymenu.DailyMenu) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Menú del %s*", m.Date.Format(dailymenu.DayFormat))
	if m.CarriedForward {
		b.WriteString(" _(copiado del día anterior)_")
	}
	b.WriteString("\n\n*Primeros:*\n")
	for _, course := range m.FirstCourses {
		fmt.Fprintf(&b, "%d. %s\n", course.DisplayOrder, course.Name)
	}
	b.WriteString("\n*Segundos:*\n")
	for _, course := range m.SecondCourses {
		fmt.Fprintf(&b, "%d. %s\n", course.DisplayOrder, course.Name)
	}
	if m.Price.Valid {
		fmt.Fprintf(&b, "\nPrecio: %.2f €", m.Price.Float64)
	}
	return b.String()
}
