package inventory

import (
	"context"
	"errors"

	"qbooking/internal/app/dto"
	"qbooking/internal/app/queries"
	"qbooking/internal/app/uow"
	domaininventory "qbooking/internal/domain/inventory"
)

const getRoomTypeKey = "inventory.room_type"

type GetRoomTypeQuery struct {
	PropertyID int64 `validate:"required,gt=0"`
	RoomTypeID int64 `validate:"required,gt=0"`
}

func (q GetRoomTypeQuery) Key() string { return getRoomTypeKey }

type GetRoomTypeHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetRoomTypeHandler) Handle(ctx context.Context, q GetRoomTypeQuery) (dto.RoomType, error) {
	var out dto.RoomType
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		propertyID := domaininventory.PropertyID(q.PropertyID)
		rt, err := unit.RoomTypes().RoomType(ctx, propertyID, domaininventory.RoomTypeID(q.RoomTypeID))
		if err != nil {
			return err
		}
		property, err := unit.Properties().Property(ctx, propertyID)
		if err != nil && !errors.Is(err, domaininventory.ErrPropertyNotFound) {
			return err
		}
		out = dto.MapRoomType(rt, property)
		return nil
	})
	return out, err
}

var _ queries.Handler[GetRoomTypeQuery, dto.RoomType] = (*GetRoomTypeHandler)(nil)
