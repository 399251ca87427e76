// Package notifications schedules local reminders. Pending notifications
// are kept in the key-value store so they survive a restart, and are
// delivered through a Notifier when due.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
)

const (
	DailyReminderID = 1
	TestID          = 999

	ReminderHour   = 19
	ReminderMinute = 0
)

type Repeat string

const (
	RepeatNone  Repeat = ""
	RepeatDaily Repeat = "daily"
)

type Notification struct {
	ID      int               `json:"id"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Channel string            `json:"channel"`
	At      time.Time         `json:"at"`
	Repeat  Repeat            `json:"repeat,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// Notifier shows a due notification to the user.
type Notifier interface {
	Notify(n Notification)
}

// Channel is the user-scoped channel reminders are posted on.
func Channel(uid string) string {
	return "mood-reminders-" + uid
}

// NextDaily returns the first hour:minute strictly after now, in now's
// location.
func NextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

type stopFunc func() bool

// armed is a live timer. gen tells a callback that fired late from the
// timer that replaced it.
type armed struct {
	gen  uint64
	stop stopFunc
}

type Scheduler struct {
	store    kvstore.Store
	notifier Notifier
	logger   logging.Logger

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) stopFunc

	mu     sync.Mutex
	gen    uint64
	timers map[string]map[int]armed
}

func NewScheduler(s kvstore.Store, n Notifier, l logging.Logger) *Scheduler {
	return &Scheduler{
		store:    s,
		notifier: n,
		logger:   l.With("component", "notifications"),
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) stopFunc {
			return time.AfterFunc(d, f).Stop
		},
		timers: make(map[string]map[int]armed),
	}
}

func (s *Scheduler) load(ctx context.Context, uid string) ([]Notification, error) {
	var list []Notification
	err := kvstore.GetJSON(ctx, s.store, kvstore.NotificationsKey(uid), &list)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return list, err
}

func (s *Scheduler) save(ctx context.Context, uid string, list []Notification) error {
	if len(list) == 0 {
		return s.store.Delete(ctx, kvstore.NotificationsKey(uid))
	}
	return kvstore.SetJSON(ctx, s.store, kvstore.NotificationsKey(uid), list)
}

// put stores n, replacing a notification with the same id, and arms it.
// Callers hold s.mu.
func (s *Scheduler) put(ctx context.Context, uid string, n Notification) error {
	list, err := s.load(ctx, uid)
	if err != nil {
		return err
	}
	list = slices.DeleteFunc(list, func(x Notification) bool { return x.ID == n.ID })
	list = append(list, n)
	if err := s.save(ctx, uid, list); err != nil {
		return err
	}
	s.arm(uid, n)
	return nil
}

func (s *Scheduler) arm(uid string, n Notification) {
	s.disarm(uid, n.ID)

	d := n.At.Sub(s.now())
	if d < 0 {
		d = 0
	}
	if s.timers[uid] == nil {
		s.timers[uid] = make(map[int]armed)
	}
	s.gen++
	id, gen := n.ID, s.gen
	s.timers[uid][id] = armed{gen: gen, stop: s.afterFunc(d, func() { s.fire(uid, id, gen) })}
}

func (s *Scheduler) disarm(uid string, id int) {
	if a, ok := s.timers[uid][id]; ok {
		a.stop()
		delete(s.timers[uid], id)
	}
}

// fire delivers a due notification. Daily ones are moved to the next day,
// one-shots are dropped. A callback whose timer was re-armed or cancelled
// while it waited for the lock does nothing.
func (s *Scheduler) fire(uid string, id int, gen uint64) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.timers[uid][id]; !ok || a.gen != gen {
		return
	}
	delete(s.timers[uid], id)

	list, err := s.load(ctx, uid)
	if err != nil {
		s.logger.Error(ctx, "notifications not loaded", "error", err)
		return
	}
	i := slices.IndexFunc(list, func(x Notification) bool { return x.ID == id })
	if i < 0 {
		return
	}
	n := list[i]

	s.notifier.Notify(n)

	if n.Repeat == RepeatDaily {
		n.At = NextDaily(s.now(), n.At.Hour(), n.At.Minute())
		if err := s.put(ctx, uid, n); err != nil {
			s.logger.Error(ctx, "daily reminder not re-armed", "error", err)
		}
		return
	}

	list = slices.Delete(list, i, i+1)
	if err := s.save(ctx, uid, list); err != nil {
		s.logger.Error(ctx, "delivered notification not removed", "error", err)
	}
}

// ScheduleDailyReminder sets the evening reminder to log a mood.
func (s *Scheduler) ScheduleDailyReminder(ctx context.Context, uid string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := Notification{
		ID:      DailyReminderID,
		Title:   "MindBalance Reminder",
		Body:    "Time to log your daily mood!",
		Channel: Channel(uid),
		At:      NextDaily(s.now(), ReminderHour, ReminderMinute),
		Repeat:  RepeatDaily,
		Extra:   map[string]string{"redirectTo": "addMood"},
	}
	return n, s.put(ctx, uid, n)
}

// ScheduleTest fires a notification a second from now.
func (s *Scheduler) ScheduleTest(ctx context.Context, uid string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := Notification{
		ID:      TestID,
		Title:   "Test Notification",
		Body:    "You should hear sound and feel vibration!",
		Channel: Channel(uid),
		At:      s.now().Add(time.Second),
		Extra:   map[string]string{"test": "true"},
	}
	return n, s.put(ctx, uid, n)
}

// Cancel removes a pending notification. An unknown id yields
// common.ErrorNotFound.
func (s *Scheduler) Cancel(ctx context.Context, uid string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel(ctx, uid, id)
}

func (s *Scheduler) cancel(ctx context.Context, uid string, id int) error {
	s.disarm(uid, id)

	list, err := s.load(ctx, uid)
	if err != nil {
		return err
	}
	n := len(list)
	list = slices.DeleteFunc(list, func(x Notification) bool { return x.ID == id })
	if len(list) == n {
		return fmt.Errorf("notification %d: %w", id, common.ErrorNotFound)
	}
	return s.save(ctx, uid, list)
}

// CancelAll removes the daily reminder and the test notification.
func (s *Scheduler) CancelAll(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []int{DailyReminderID, TestID} {
		if err := s.cancel(ctx, uid, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
	}
	return nil
}

// Pending lists scheduled notifications, soonest first.
func (s *Scheduler) Pending(ctx context.Context, uid string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b Notification) int { return a.At.Compare(b.At) })
	return list, nil
}

// Start arms the notifications persisted for uid. Daily reminders whose
// time passed while the app was closed move to their next slot; missed
// one-shots are delivered right away.
func (s *Scheduler) Start(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx, uid)
	if err != nil {
		return err
	}

	now := s.now()
	changed := false
	for i, n := range list {
		if n.Repeat == RepeatDaily && !n.At.After(now) {
			list[i].At = NextDaily(now, n.At.Hour(), n.At.Minute())
			changed = true
		}
	}
	if changed {
		if err := s.save(ctx, uid, list); err != nil {
			return err
		}
	}
	for _, n := range list {
		s.arm(uid, n)
	}
	s.logger.Debug(ctx, "notifications armed", "user_id", uid, "count", len(list))
	return nil
}

// Stop disarms every timer. Persisted notifications stay.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for uid, m := range s.timers {
		for id := range m {
			s.disarm(uid, id)
		}
	}
}
