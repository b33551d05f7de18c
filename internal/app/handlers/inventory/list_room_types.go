package inventory

import (
	"context"
	"errors"

	"qbooking/internal/app/dto"
	"qbooking/internal/app/queries"
	"qbooking/internal/app/uow"
	domaininventory "qbooking/internal/domain/inventory"
)

const listRoomTypesKey = "inventory.room_types"

type ListRoomTypesQuery struct {
	PropertyID int64 `validate:"required,gt=0"`
}

func (q ListRoomTypesQuery) Key() string { return listRoomTypesKey }

// ListRoomTypesHandler returns every room type of a property ordered by id.
// An unknown property is reported as not found, a known one may list nothing.
type ListRoomTypesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRoomTypesHandler) Handle(ctx context.Context, q ListRoomTypesQuery) ([]dto.RoomType, error) {
	var out []dto.RoomType
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		propertyID := domaininventory.PropertyID(q.PropertyID)
		property, err := unit.Properties().Property(ctx, propertyID)
		if err != nil && !errors.Is(err, domaininventory.ErrPropertyNotFound) {
			return err
		}
		rts, err := unit.RoomTypes().ListByProperty(ctx, propertyID)
		if err != nil {
			return err
		}
		if property == nil && len(rts) == 0 {
			return domaininventory.ErrPropertyNotFound
		}
		out = make([]dto.RoomType, 0, len(rts))
		for _, rt := range rts {
			out = append(out, dto.MapRoomType(rt, property))
		}
		return nil
	})
	return out, err
}

var _ queries.Handler[ListRoomTypesQuery, []dto.RoomType] = (*ListRoomTypesHandler)(nil)
