package availability

import (
	"context"
	"log/slog"
	"time"

	"qbooking/internal/app/dto"
	"qbooking/internal/app/policies"
	"qbooking/internal/app/queries"
	"qbooking/internal/app/uow"
	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/pricing"
	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/domain/shared/money"
)

const getAvailableDatesKey = "availability.available_dates"

type GetAvailableDatesQuery struct {
	dto.AvailableDatesRequest
}

func (q GetAvailableDatesQuery) Key() string { return getAvailableDatesKey }

// GetAvailableDatesHandler builds the day-by-day calendar of one month.
type GetAvailableDatesHandler struct {
	UoWFactory uow.UoWFactory
	Cache      policies.CalendarCache
	Clock      policies.Clock
	Logger     *slog.Logger
}

func (h *GetAvailableDatesHandler) Handle(ctx context.Context, q GetAvailableDatesQuery) (dto.AvailableDates, error) {
	month, err := calendar.NewMonth(q.Year, q.Month)
	if err != nil {
		return dto.AvailableDates{}, err
	}
	rooms := q.RoomsCount
	if rooms < 1 {
		rooms = 1
	}
	today := h.Clock.Today()
	key := policies.CalendarKey{
		PropertyID: q.PropertyID,
		RoomTypeID: q.RoomTypeID,
		Year:       month.Year,
		Month:      int(month.Month),
		RoomsCount: rooms,
		Today:      today.Format(daterange.DayLayout),
	}
	var version int64
	cacheable := h.Cache != nil
	if cacheable {
		cached, v, ok, err := h.Cache.Get(ctx, key)
		version = v
		if err != nil {
			cacheable = false
			h.log().WarnContext(ctx, "calendar cache read failed", "key", key.String(), "error", err)
		} else if ok {
			return cached, nil
		}
	}

	var out dto.AvailableDates
	err = uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		propertyID := inventory.PropertyID(q.PropertyID)
		roomTypeID := inventory.RoomTypeID(q.RoomTypeID)
		rt, err := unit.RoomTypes().RoomType(ctx, propertyID, roomTypeID)
		if err != nil {
			return err
		}
		ledger, err := unit.Ledgers().Ledger(ctx, propertyID, roomTypeID)
		if err != nil {
			return err
		}
		hs, err := unit.Holidays().Overlapping(ctx, month.First(), month.Last())
		if err != nil {
			return err
		}
		holidays := calendar.HolidaySet(hs)
		days, summary := calendar.BuildMonth(calendar.MonthInput{
			Month:      month,
			Today:      today,
			RoomsCount: rooms,
			Holidays:   holidays,
			FreeRooms: func(night time.Time) int {
				return ledger.FreeRooms(rt.TotalRooms, night)
			},
			Price: func(night time.Time) money.Money {
				return pricing.NightlyRate(rt, night, holidays)
			},
		})
		out = dto.AvailableDates{
			Calendar:     dto.MapDays(days),
			Summary:      dto.MapSummary(summary),
			RoomTypeName: rt.Name,
			MonthName:    month.Name(),
			Year:         month.Year,
			Month:        int(month.Month),
			TotalRooms:   rt.TotalRooms,
			Currency:     rt.Currency(),
		}
		return nil
	})
	if err != nil {
		return dto.AvailableDates{}, err
	}

	if cacheable {
		if err := h.Cache.Set(ctx, key, version, out); err != nil {
			h.log().WarnContext(ctx, "calendar cache write failed", "key", key.String(), "error", err)
		}
	}
	return out, nil
}

func (h *GetAvailableDatesHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ queries.Handler[GetAvailableDatesQuery, dto.AvailableDates] = (*GetAvailableDatesHandler)(nil)
