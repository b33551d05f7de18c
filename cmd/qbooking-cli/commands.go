package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"qbooking/internal/client/bookingapi"
	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/frontend/calendarview"
	"qbooking/internal/frontend/counter"
	"qbooking/internal/frontend/datepicker"
	"qbooking/internal/frontend/gate"
	"qbooking/internal/frontend/notify"
	"qbooking/internal/infra/config"
	"qbooking/internal/infra/obs"
)

var errNotBooked = errors.New("availability check did not lead to booking")

// session is what every subcommand needs: an API client, the toast sink and
// the property time zone.
type session struct {
	client   *bookingapi.Client
	notifier notify.Notifier
	out      io.Writer
	loc      *time.Location
	now      func() time.Time
}

func (s *session) today() time.Time {
	return daterange.Today(s.now(), s.loc)
}

func roomFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{Name: "property", Usage: "property id", Required: true},
		&cli.Int64Flag{Name: "room-type", Usage: "room type id", Required: true},
	}
}

func stayFlags() []cli.Flag {
	return append(roomFlags(),
		&cli.StringFlag{Name: "check-in", Usage: "arrival date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "check-out", Usage: "departure date (YYYY-MM-DD)"},
		&cli.IntFlag{Name: "adults", Value: 1},
		&cli.IntFlag{Name: "children", Value: 0},
		&cli.IntFlag{Name: "rooms", Value: 1},
	)
}

func newApp(cfg config.ClientConfig, stdout, stderr io.Writer) *cli.App {
	var s *session
	return &cli.App{
		Name:      "qbooking",
		Usage:     "check room availability and hold rooms",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: cfg.APIURL, Usage: "booking API base URL"},
			&cli.DurationFlag{Name: "timeout", Value: cfg.APITimeout},
			&cli.StringFlag{Name: "timezone", Value: cfg.Timezone},
			&cli.BoolFlag{Name: "verbose", Usage: "log requests to stderr"},
		},
		Before: func(c *cli.Context) error {
			loc, err := time.LoadLocation(c.String("timezone"))
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			logger := obs.NewLoggerTo(stderr, cfg.Env, level)
			s = &session{
				client:   bookingapi.NewClient(c.String("api"), c.Duration("timeout"), logger),
				notifier: &notify.Writer{W: stderr},
				out:      stdout,
				loc:      loc,
				now:      time.Now,
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "check availability and print the booking route when rooms are free",
				Flags:  stayFlags(),
				Action: func(c *cli.Context) error { return runCheck(c, s) },
			},
			{
				Name:  "calendar",
				Usage: "print the month calendar of a room type",
				Flags: append(roomFlags(),
					&cli.IntFlag{Name: "rooms", Value: 1},
					&cli.IntFlag{Name: "year"},
					&cli.IntFlag{Name: "month"},
					&cli.IntFlag{Name: "step", Usage: "months to move forward (negative moves back)"},
				),
				Action: func(c *cli.Context) error { return runCalendar(c, s) },
			},
			{
				Name:  "reserve",
				Usage: "hold rooms for a stay",
				Flags: append(stayFlags(),
					&cli.StringFlag{Name: "guest", Required: true},
					&cli.StringFlag{Name: "idempotency-key", Usage: "defaults to a random key"},
				),
				Action: func(c *cli.Context) error { return runReserve(c, s) },
			},
			{
				Name:      "cancel",
				Usage:     "release a reservation",
				ArgsUsage: "<reservation-id>",
				Action:    func(c *cli.Context) error { return runCancel(c, s) },
			},
		},
	}
}

// selection loads the room type limits and walks the counters to the requested
// values, so out-of-range input is clamped the same way the steppers clamp it.
func selection(c *cli.Context, s *session) (counter.GuestSelection, error) {
	rt, err := s.client.GetRoomType(c.Context, c.Int64("property"), c.Int64("room-type"))
	if err != nil {
		return counter.GuestSelection{}, err
	}
	ctr := counter.New(counter.Limits{TotalRooms: rt.TotalRooms, MaxAdults: rt.MaxAdults, MaxChildren: rt.MaxChildren})
	requested := []struct {
		field counter.Field
		want  int
	}{
		{counter.Adults, c.Int("adults")},
		{counter.Children, c.Int("children")},
		{counter.Rooms, c.Int("rooms")},
	}
	for _, r := range requested {
		stepTo(ctr, r.field, r.want)
		if got := ctr.Value(r.field); got != r.want {
			s.notifier.Notify(fmt.Sprintf("%s limited to %d for %s", r.field, got, rt.Name), notify.Warning)
		}
	}
	return ctr.Selection(), nil
}

func stepTo(ctr *counter.Counter, field counter.Field, want int) {
	for ctr.Value(field) < want && ctr.Increment(field) {
	}
	for ctr.Value(field) > want && ctr.Decrement(field) {
	}
}

func pickDates(c *cli.Context, s *session) (*datepicker.Picker, error) {
	picker := datepicker.New(s.today())
	if v := c.String("check-in"); v != "" {
		if err := picker.SetCheckIn(v); err != nil {
			return nil, err
		}
	}
	if v := c.String("check-out"); v != "" {
		if err := picker.SetCheckOut(v); err != nil {
			return nil, err
		}
	}
	return picker, nil
}

func runCheck(c *cli.Context, s *session) error {
	picker, err := pickDates(c, s)
	if err != nil {
		return err
	}
	guests, err := selection(c, s)
	if err != nil {
		return err
	}
	g := &gate.Gate{
		Client:    s.client,
		Notifier:  s.notifier,
		Navigator: gate.NavigatorFunc(func(route string) { fmt.Fprintln(s.out, route) }),
	}
	outcome := g.Check(c.Context, gate.Request{
		PropertyID: c.Int64("property"),
		RoomTypeID: c.Int64("room-type"),
		CheckIn:    picker.CheckIn(),
		CheckOut:   picker.CheckOut(),
		Guests:     guests,
	})
	if outcome != gate.Navigated {
		return fmt.Errorf("%w: %s", errNotBooked, outcome)
	}
	return nil
}

func runCalendar(c *cli.Context, s *session) error {
	year, month := c.Int("year"), c.Int("month")
	if year == 0 || month == 0 {
		today := s.today()
		year, month = today.Year(), int(today.Month())
	}
	view := calendarview.New(s.client, s.notifier, c.Int64("property"), c.Int64("room-type"), c.Int("rooms"), year, month)
	if err := view.Load(c.Context); err != nil {
		return err
	}
	step := c.Int("step")
	for ; step > 0; step-- {
		if err := view.Next(c.Context); err != nil {
			return err
		}
	}
	for ; step < 0; step++ {
		if err := view.Prev(c.Context); err != nil {
			return err
		}
	}
	data, ok := view.Data()
	if !ok {
		return errors.New("calendar not loaded")
	}
	return calendarview.Render(s.out, data)
}

func runReserve(c *cli.Context, s *session) error {
	picker, err := pickDates(c, s)
	if err != nil {
		return err
	}
	if !picker.Complete() {
		s.notifier.Notify(gate.MsgChooseDates, notify.Warning)
		return errNotBooked
	}
	guests, err := selection(c, s)
	if err != nil {
		return err
	}
	key := c.String("idempotency-key")
	if key == "" {
		key = uuid.NewString()
	}
	res, err := s.client.Reserve(c.Context, bookingapi.ReserveRequest{
		PropertyID: c.Int64("property"),
		RoomTypeID: c.Int64("room-type"),
		CheckIn:    picker.CheckIn(),
		CheckOut:   picker.CheckOut(),
		RoomsCount: guests.RoomsCount,
		Adults:     guests.Adults,
		Children:   guests.Children,
		GuestName:  c.String("guest"),
	}, key)
	if err != nil {
		var rejected *bookingapi.RejectedError
		if errors.As(err, &rejected) {
			s.notifier.Notify(rejected.Message, notify.Error)
		}
		return err
	}
	s.notifier.Notify("Rooms held", notify.Success)
	fmt.Fprintf(s.out, "reservation %s: %d night(s), total %d %s\n", res.ReservationID, res.Nights, res.Total, res.Currency)
	return nil
}

func runCancel(c *cli.Context, s *session) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("reservation id required")
	}
	res, err := s.client.Cancel(c.Context, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "reservation %s %s\n", res.ReservationID, res.Status)
	return nil
}
