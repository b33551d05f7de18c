package holidays

import (
	"context"
	"time"

	"qbooking/internal/app/dto"
	"qbooking/internal/app/queries"
	"qbooking/internal/app/uow"
)

const listHolidaysKey = "holidays.list"

type ListHolidaysQuery struct {
	Year int `validate:"required,gte=1970,lte=9999"`
}

func (q ListHolidaysQuery) Key() string { return listHolidaysKey }

type ListHolidaysHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListHolidaysHandler) Handle(ctx context.Context, q ListHolidaysQuery) (dto.HolidayCollection, error) {
	from := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(q.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	var out dto.HolidayCollection
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		hs, err := unit.Holidays().Overlapping(ctx, from, to)
		if err != nil {
			return err
		}
		out = dto.MapHolidays(q.Year, hs)
		return nil
	})
	return out, err
}

var _ queries.Handler[ListHolidaysQuery, dto.HolidayCollection] = (*ListHolidaysHandler)(nil)
