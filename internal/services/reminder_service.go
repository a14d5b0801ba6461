package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"taxmind/internal/calendar"
	"taxmind/internal/config"
	"taxmind/internal/deadline"
	"taxmind/internal/models"
	"taxmind/internal/obs"
)

// ReminderStore is the storage the reminder engine reads and writes
type ReminderStore interface {
	TeamsWithChat(ctx context.Context) ([]models.Team, error)
	TeamByChatID(ctx context.Context, chatID int64) (*models.Team, error)
	CompaniesByTeam(ctx context.Context, teamID uint) ([]models.Company, error)
	RequirementsForCompanies(ctx context.Context, taxIDs []string) ([]models.Requirement, error)
	HasSubmission(ctx context.Context, taxID, formCode, period string) (bool, error)
	Holidays(ctx context.Context) (calendar.HolidaySet, error)
	LastHourlySentAt(ctx context.Context, requirementID uint, remindForDate string) (string, bool, error)
	InsertReminderSent(ctx context.Context, rec models.ReminderSent) error
}

// ReminderItem is one actionable obligation: not yet filed and due within
// its threshold window
type ReminderItem struct {
	RequirementID uint             `json:"requirement_id"`
	CompanyTaxID  string           `json:"company_tax_id"`
	CompanyName   string           `json:"company_name"`
	FormCode      string           `json:"form_code"`
	Frequency     models.Frequency `json:"frequency"`
	Period        string           `json:"period"`
	Deadline      time.Time        `json:"deadline"`
	DaysLeft      int              `json:"days_left"`
	OwnerID       *int64           `json:"owner_id"`
	OwnerName     string           `json:"owner_name"`
}

// TeamPayload groups a team's actionable items for one sweep
type TeamPayload struct {
	TeamID   uint           `json:"team_id"`
	ChatID   int64          `json:"chat_id"`
	TeamName string         `json:"team_name"`
	Items    []ReminderItem `json:"items"`
}

// Partition splits the payload's items into per-owner buckets and the
// team-level unassigned bucket
func (p TeamPayload) Partition() (map[int64][]ReminderItem, []ReminderItem) {
	owners := make(map[int64][]ReminderItem)
	var unassigned []ReminderItem
	for _, item := range p.Items {
		if item.OwnerID != nil {
			owners[*item.OwnerID] = append(owners[*item.OwnerID], item)
		} else {
			unassigned = append(unassigned, item)
		}
	}
	return owners, unassigned
}

// DispatchReport aggregates per-message outcomes of one sweep. Failures are
// counted, not raised: one bucket's delivery failure never aborts the sweep.
type DispatchReport struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Recorded  int `json:"recorded"`
}

// ReminderService gathers actionable obligations and dispatches reminder
// notifications on the daily and hourly cadences
type ReminderService struct {
	store     ReminderStore
	messenger Messenger
	cfg       config.Config
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewReminderService wires the reminder engine
func NewReminderService(store ReminderStore, messenger Messenger, cfg config.Config, log *zap.SugaredLogger) *ReminderService {
	return &ReminderService{
		store:     store,
		messenger: messenger,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Today returns the current date in the configured timezone
func (s *ReminderService) Today() time.Time {
	now := s.now().In(s.cfg.Timezone)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Timezone)
}

// Gather produces, per team with a chat group, the list of obligations that
// are unfiled and inside their threshold window at refDate. It performs only
// reads; calling it twice against unchanged state yields identical payloads.
func (s *ReminderService) Gather(ctx context.Context, refDate time.Time) ([]TeamPayload, error) {
	teams, err := s.store.TeamsWithChat(ctx)
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}

	holidays, err := s.store.Holidays(ctx)
	if err != nil {
		holidays = calendar.HolidaySet{}
	}

	var payloads []TeamPayload
	for _, team := range teams {
		items, err := s.gatherTeam(ctx, team, refDate, holidays)
		if err != nil {
			// one team's read failure must not abort the sweep
			s.log.Errorw("gather failed for team", "team_id", team.ID, "error", err)
			continue
		}
		if len(items) == 0 {
			continue
		}
		payloads = append(payloads, TeamPayload{
			TeamID:   team.ID,
			ChatID:   team.ChatID,
			TeamName: team.Name,
			Items:    items,
		})
	}
	return payloads, nil
}

func (s *ReminderService) gatherTeam(ctx context.Context, team models.Team, refDate time.Time, holidays calendar.HolidaySet) ([]ReminderItem, error) {
	companies, err := s.store.CompaniesByTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, nil
	}

	byTax := make(map[string]models.Company, len(companies))
	taxIDs := make([]string, 0, len(companies))
	for _, c := range companies {
		byTax[c.TaxID] = c
		taxIDs = append(taxIDs, c.TaxID)
	}

	reqs, err := s.store.RequirementsForCompanies(ctx, taxIDs)
	if err != nil {
		return nil, err
	}

	var items []ReminderItem
	for _, req := range reqs {
		due, period, ok := deadline.Compute(req.Frequency, refDate)
		if !ok {
			// unrecognized frequency: skip the obligation, not the batch
			continue
		}

		daysLeft := calendar.BusinessDaysBetween(refDate.AddDate(0, 0, -1), due, holidays)
		if daysLeft < 0 || daysLeft > s.cfg.Threshold(req.Frequency) {
			continue
		}

		filed, err := s.store.HasSubmission(ctx, req.CompanyTaxID, req.FormCode, period)
		if err != nil {
			return nil, err
		}
		if filed {
			continue
		}

		company := byTax[req.CompanyTaxID]
		name := company.Name
		if name == "" {
			name = req.CompanyTaxID
		}
		items = append(items, ReminderItem{
			RequirementID: req.ID,
			CompanyTaxID:  req.CompanyTaxID,
			CompanyName:   name,
			FormCode:      req.FormCode,
			Frequency:     req.Frequency,
			Period:        period,
			Deadline:      due,
			DaysLeft:      daysLeft,
			OwnerID:       company.OwnerID,
			OwnerName:     company.OwnerName,
		})
	}
	return items, nil
}

// SendDaily runs the daily sweep: one message per owner bucket, then the
// unassigned bucket in chunks. SentReminder rows (mode=initial) are written
// only for buckets and chunks that were actually delivered.
func (s *ReminderService) SendDaily(ctx context.Context, refDate time.Time) (DispatchReport, error) {
	var report DispatchReport

	payloads, err := s.Gather(ctx, refDate)
	if err != nil {
		return report, err
	}

	dateStr := refDate.Format(calendar.DateLayout)
	for _, p := range payloads {
		owners, unassigned := p.Partition()

		for _, ownerID := range sortedOwnerIDs(owners) {
			bucket := owners[ownerID]
			lines := []string{fmt.Sprintf("🔔 Filing reminder (automatic) — %s", dateStr)}
			for _, item := range bucket {
				lines = append(lines, itemLine(item))
			}
			text := mentionOwner(ownerID) + "\n" + joinLines(lines)

			if err := s.messenger.SendMessage(ctx, p.ChatID, text, ParseModeHTML); err != nil {
				s.log.Errorw("daily owner send failed", "chat_id", p.ChatID, "owner_id", ownerID, "error", err)
				obs.SendFailures.Inc()
				report.Failed++
				continue
			}
			report.Delivered++
			report.Recorded += s.recordBatch(ctx, bucket, models.ModeInitial, "daily initial")
		}

		if len(unassigned) > 0 {
			header := fmt.Sprintf("🔔 Filings due soon (%s) for team: %s", dateStr, p.TeamName)
			for _, c := range chunkItems(header, unassigned, s.cfg.ChunkSize) {
				if err := s.messenger.SendMessage(ctx, p.ChatID, joinLines(c.lines), ParseModeNone); err != nil {
					s.log.Errorw("daily group chunk send failed", "chat_id", p.ChatID, "error", err)
					obs.SendFailures.Inc()
					report.Failed++
					continue
				}
				report.Delivered++
				report.Recorded += s.recordBatch(ctx, c.items, models.ModeInitial, "daily initial")
			}
		}
	}

	obs.SweepRuns.WithLabelValues("daily").Inc()
	return report, nil
}

// SendHourly runs the urgent sweep: items whose deadline day ends within the
// next 24 hours get a per-item reminder, rate-limited to one per hour for
// each requirement/due-date pair.
func (s *ReminderService) SendHourly(ctx context.Context) (DispatchReport, error) {
	var report DispatchReport

	now := s.now().In(s.cfg.Timezone)
	refDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Timezone)

	payloads, err := s.Gather(ctx, refDate)
	if err != nil {
		return report, err
	}

	for _, p := range payloads {
		for _, item := range p.Items {
			// the deadline stays valid through its whole day
			dayEnd := midnightAfter(item.Deadline, s.cfg.Timezone)
			hoursLeft := dayEnd.Sub(now).Hours()
			if hoursLeft < 0 || hoursLeft > 24 {
				continue
			}

			if !s.hourlyAllowed(ctx, item, now) {
				continue
			}

			approx := int(hoursLeft)
			if approx < 0 {
				approx = 0
			}
			text := fmt.Sprintf("⏰ [Urgent] %s (%s) — %s — period %s — due %s (~%d hours left). Please file now!",
				item.CompanyName, item.CompanyTaxID, item.FormCode, item.Period,
				item.Deadline.Format(calendar.DateLayout), approx)

			mode := ParseModeNone
			if item.OwnerID != nil {
				text = mentionOwner(*item.OwnerID) + "\n" + text
				mode = ParseModeHTML
			}

			if err := s.messenger.SendMessage(ctx, p.ChatID, text, mode); err != nil {
				s.log.Errorw("hourly send failed", "chat_id", p.ChatID, "requirement_id", item.RequirementID, "error", err)
				obs.SendFailures.Inc()
				report.Failed++
				continue
			}
			report.Delivered++
			report.Recorded += s.recordBatch(ctx, []ReminderItem{item}, models.ModeHourly, "hourly reminder")
		}
	}

	obs.SweepRuns.WithLabelValues("hourly").Inc()
	return report, nil
}

// ForceRemind sends reminders for every requirement in the chat's team,
// bypassing threshold filtering. Used for administrative testing; returns
// the number of requirements successfully notified.
func (s *ReminderService) ForceRemind(ctx context.Context, chatID int64) (int, error) {
	team, err := s.store.TeamByChatID(ctx, chatID)
	if err != nil {
		return 0, err
	}

	companies, err := s.store.CompaniesByTeam(ctx, team.ID)
	if err != nil {
		return 0, err
	}
	if len(companies) == 0 {
		return 0, nil
	}

	byTax := make(map[string]models.Company, len(companies))
	taxIDs := make([]string, 0, len(companies))
	for _, c := range companies {
		byTax[c.TaxID] = c
		taxIDs = append(taxIDs, c.TaxID)
	}

	reqs, err := s.store.RequirementsForCompanies(ctx, taxIDs)
	if err != nil {
		return 0, err
	}

	today := s.Today()
	var items []ReminderItem
	for _, req := range reqs {
		company := byTax[req.CompanyTaxID]
		name := company.Name
		if name == "" {
			name = req.CompanyTaxID
		}
		items = append(items, ReminderItem{
			RequirementID: req.ID,
			CompanyTaxID:  req.CompanyTaxID,
			CompanyName:   name,
			FormCode:      req.FormCode,
			Frequency:     req.Frequency,
			Period:        string(req.Frequency),
			Deadline:      today,
			OwnerID:       company.OwnerID,
			OwnerName:     company.OwnerName,
		})
	}
	if len(items) == 0 {
		return 0, nil
	}

	dateStr := today.Format(calendar.DateLayout)
	payload := TeamPayload{TeamID: team.ID, ChatID: chatID, TeamName: team.Name, Items: items}
	owners, unassigned := payload.Partition()

	sent := 0
	for _, ownerID := range sortedOwnerIDs(owners) {
		bucket := owners[ownerID]
		lines := []string{fmt.Sprintf("🔔 (Test) Filing reminder — %s", dateStr)}
		for _, item := range bucket {
			lines = append(lines, forceLine(item))
		}
		text := mentionOwner(ownerID) + "\n" + joinLines(lines)

		err := s.messenger.SendMessage(ctx, chatID, text, ParseModeHTML)
		if err != nil {
			// retry without the mention markup before giving up
			err = s.messenger.SendMessage(ctx, chatID, joinLines(lines), ParseModeNone)
		}
		if err != nil {
			s.log.Errorw("forced owner send failed", "chat_id", chatID, "owner_id", ownerID, "error", err)
			obs.SendFailures.Inc()
			continue
		}
		sent += s.recordBatch(ctx, bucket, models.ModeForced, "force_remind test")
	}

	if len(unassigned) > 0 {
		header := fmt.Sprintf("🔔 (Test) Filings without owner — %s", dateStr)
		chunks := chunkItems(header, unassigned, s.cfg.ForceChunkSize)
		for i := range chunks {
			chunks[i].lines = replaceItemLines(chunks[i], forceLine)
		}
		for _, c := range chunks {
			if err := s.messenger.SendMessage(ctx, chatID, joinLines(c.lines), ParseModeNone); err != nil {
				s.log.Errorw("forced group chunk send failed", "chat_id", chatID, "error", err)
				obs.SendFailures.Inc()
				continue
			}
			sent += s.recordBatch(ctx, c.items, models.ModeForced, "force_remind test")
		}
	}

	return sent, nil
}

// hourlyAllowed applies the per-requirement rate limit. A missing record
// allows the send. A malformed stored timestamp also allows it (fail open),
// but is logged and counted so systematic corruption is visible.
func (s *ReminderService) hourlyAllowed(ctx context.Context, item ReminderItem, now time.Time) bool {
	remindFor := item.Deadline.Format(calendar.DateLayout)
	raw, found, err := s.store.LastHourlySentAt(ctx, item.RequirementID, remindFor)
	if err != nil {
		s.log.Errorw("rate-limit lookup failed", "requirement_id", item.RequirementID, "error", err)
		return false
	}
	if !found {
		return true
	}

	lastUTC, err := time.ParseInLocation(models.SentAtLayout, raw, time.UTC)
	if err != nil {
		s.log.Warnw("unparseable sent_at, allowing send",
			"requirement_id", item.RequirementID, "sent_at", raw, "error", err)
		obs.TimestampParseFailures.Inc()
		return true
	}
	return now.Sub(lastUTC.In(s.cfg.Timezone)) >= s.cfg.HourlyMinGap
}

// recordBatch writes one SentReminder row per item, returning how many rows
// were written. A failed insert loses an audit row; the sweep keeps going.
func (s *ReminderService) recordBatch(ctx context.Context, items []ReminderItem, mode, note string) int {
	recorded := 0
	for _, item := range items {
		rec := models.ReminderSent{
			RequirementID: item.RequirementID,
			RemindForDate: item.Deadline.Format(calendar.DateLayout),
			Mode:          mode,
			Note:          note,
		}
		if err := s.store.InsertReminderSent(ctx, rec); err != nil {
			s.log.Errorw("failed to record reminder", "requirement_id", item.RequirementID, "mode", mode, "error", err)
			continue
		}
		obs.RemindersSent.WithLabelValues(mode).Inc()
		recorded++
	}
	return recorded
}

// chunk is one outbound message worth of lines and the items it carries
type chunk struct {
	lines []string
	items []ReminderItem
}

// chunkItems splits header + one line per item into messages of at most
// size lines, tracking which items ride in which message so only delivered
// chunks get audit rows.
func chunkItems(header string, items []ReminderItem, size int) []chunk {
	if size < 2 {
		size = 2
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, header)
	for _, item := range items {
		lines = append(lines, itemLine(item))
	}

	var chunks []chunk
	for lo := 0; lo < len(lines); lo += size {
		hi := lo + size
		if hi > len(lines) {
			hi = len(lines)
		}
		itemLo := lo - 1
		if itemLo < 0 {
			itemLo = 0
		}
		chunks = append(chunks, chunk{
			lines: lines[lo:hi],
			items: items[itemLo : hi-1],
		})
	}
	return chunks
}

// replaceItemLines rebuilds a chunk's lines with a different line renderer,
// preserving a leading header line if present
func replaceItemLines(c chunk, render func(ReminderItem) string) []string {
	lines := make([]string, 0, len(c.lines))
	headerLines := len(c.lines) - len(c.items)
	lines = append(lines, c.lines[:headerLines]...)
	for _, item := range c.items {
		lines = append(lines, render(item))
	}
	return lines
}

func itemLine(item ReminderItem) string {
	return fmt.Sprintf("• %s (%s) — %s — period %s — due %s — %d business days left",
		item.CompanyName, item.CompanyTaxID, item.FormCode, item.Period,
		item.Deadline.Format(calendar.DateLayout), item.DaysLeft)
}

func forceLine(item ReminderItem) string {
	return fmt.Sprintf("• %s (%s) — %s — %s",
		item.CompanyName, item.CompanyTaxID, item.FormCode, item.Period)
}

func mentionOwner(ownerID int64) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">Responsible owner</a>`, ownerID)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func midnightAfter(deadline time.Time, loc *time.Location) time.Time {
	return time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}

func sortedOwnerIDs(owners map[int64][]ReminderItem) []int64 {
	ids := make([]int64, 0, len(owners))
	for id := range owners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
