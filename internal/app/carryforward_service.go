package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant_backoffice/internal/domain/dailymenu"
	"restaurant_backoffice/internal/domain/telegram"
	idb "restaurant_backoffice/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// CarryForwardService keeps tomorrow covered: it warns the manager when no
// menu is scheduled for the next day and, later in the evening, copies
// today's menu onto tomorrow so the public site never goes dark.
type CarryForwardService struct {
	menuRepo      dailymenu.Repository
	notifier      telegram.Client
	managerChatID int64
	log           *logrus.Logger
	now           func() time.Time
}

func NewCarryForwardService(mr dailymenu.Repository, notifier telegram.Client, managerChatID int64, log *logrus.Logger) *CarryForwardService {
	return &CarryForwardService{
		menuRepo:      mr,
		notifier:      notifier,
		managerChatID: managerChatID,
		log:           log,
		now:           time.Now,
	}
}

// RemindIfTomorrowMissing sends the manager a heads-up when tomorrow has no
// menu yet, so there is still time to schedule one by hand.
func (s *CarryForwardService) RemindIfTomorrowMissing(ctx context.Context) error {
	today := dailymenu.NormalizeDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)

	if _, err := s.menuRepo.GetByDate(ctx, tomorrow); err == nil {
		return nil // tomorrow is covered
	} else if err != idb.ErrDailyMenuNotFound {
		return fmt.Errorf("failed to check tomorrow's menu: %w", err)
	}

	var text string
	if _, err := s.menuRepo.GetByDate(ctx, today); err == idb.ErrDailyMenuNotFound {
		text = fmt.Sprintf("⚠️ Ni hoy (%s) ni mañana tienen menú del día. Hay que crear uno a mano.",
			today.Format(dailymenu.DayFormat))
	} else if err != nil {
		return fmt.Errorf("failed to check today's menu: %w", err)
	} else {
		text = fmt.Sprintf("Mañana (%s) no tiene menú del día todavía. Esta noche se copiará el de hoy si no se crea otro.",
			tomorrow.Format(dailymenu.DayFormat))
	}

	if s.notifier == nil || s.managerChatID == 0 {
		s.log.Warn("Tomorrow has no menu and no Telegram notifier is configured")
		return nil
	}
	if err := s.notifier.SendMessage(s.managerChatID, text, nil); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// CarryForward duplicates today's menu onto tomorrow when tomorrow is still
// empty. The copy is marked as carried forward and keeps a reference to its
// source so it is distinguishable from a hand-made menu.
func (s *CarryForwardService) CarryForward(ctx context.Context) error {
	today := dailymenu.NormalizeDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)

	if _, err := s.menuRepo.GetByDate(ctx, tomorrow); err == nil {
		return nil
	} else if err != idb.ErrDailyMenuNotFound {
		return fmt.Errorf("failed to check tomorrow's menu: %w", err)
	}

	source, err := s.menuRepo.GetByDate(ctx, today)
	if err != nil {
		if err == idb.ErrDailyMenuNotFound {
			s.log.Warn("No menu today to carry forward")
			return nil
		}
		return fmt.Errorf("failed to load today's menu: %w", err)
	}

	dup := dailymenu.TemplateFromMenu(source).Apply(tomorrow)
	dup.Price = source.Price
	dup.CarriedForward = true
	dup.CarriedFromID = sql.NullInt64{Int64: source.ID, Valid: true}

	if err := s.menuRepo.CreateBatch(ctx, []*dailymenu.DailyMenu{dup}); err != nil {
		return fmt.Errorf("failed to carry menu forward: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"source_id": source.ID,
		"date":      tomorrow.Format(dailymenu.DayFormat),
	}).Info("Carried today's menu forward to tomorrow")

	if s.notifier != nil && s.managerChatID != 0 {
		text := fmt.Sprintf("El menú de hoy se ha copiado a mañana (%s). Revísalo y ajústalo si hace falta.",
			tomorrow.Format(dailymenu.DayFormat))
		if err := s.notifier.SendMessage(s.managerChatID, text, nil); err != nil {
			s.log.WithError(err).Warn("Carry-forward done but Telegram notification failed")
		}
	}
	return nil
}
