package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/domain/shared/money"
)

type inventoryFixtures struct {
	Properties []propertyFixture `json:"properties"`
	Holidays   []holidayFixture  `json:"holidays"`
}

type propertyFixture struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	RoomTypes []roomTypeFixture `json:"room_types"`
}

type roomTypeFixture struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TotalRooms   int    `json:"total_rooms"`
	MaxAdults    int    `json:"max_adults"`
	MaxChildren  int    `json:"max_children"`
	BasePrice    int64  `json:"base_price"`
	WeekendPrice int64  `json:"weekend_price"`
	Currency     string `json:"currency"`
}

type holidayFixture struct {
	Name             string `json:"name"`
	From             string `json:"from"`
	To               string `json:"to"`
	SurchargePercent int    `json:"surcharge_percent"`
}

func (a *application) loadInventoryFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("inventory fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("inventory fixtures file empty", "path", path)
		return nil
	}
	var fixtures inventoryFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	return a.importFixtures(ctx, fixtures, logger)
}

func (a *application) importFixtures(ctx context.Context, fixtures inventoryFixtures, logger *slog.Logger) error {
	for _, fx := range fixtures.Properties {
		property := &inventory.Property{ID: inventory.PropertyID(fx.ID), Name: fx.Name}
		if err := a.store.properties.Save(ctx, property); err != nil {
			logger.Error("cannot store fixture property", "property_id", fx.ID, "error", err)
			continue
		}
		for _, rtf := range fx.RoomTypes {
			rt, err := rtf.toDomain(property.ID)
			if err != nil {
				logger.Error("fixture invalid", "property_id", fx.ID, "room_type_id", rtf.ID, "error", err)
				continue
			}
			if err := a.store.roomTypes.Save(ctx, rt); err != nil {
				logger.Error("cannot store fixture room type", "property_id", fx.ID, "room_type_id", rtf.ID, "error", err)
				continue
			}
		}
		logger.Info("property fixture imported", "property_id", fx.ID, "room_types", len(fx.RoomTypes))
	}
	for _, hf := range fixtures.Holidays {
		from, errFrom := daterange.ParseDay(hf.From)
		to, errTo := daterange.ParseDay(hf.To)
		if err := errors.Join(errFrom, errTo); err != nil {
			logger.Error("fixture holiday invalid", "name", hf.Name, "error", err)
			continue
		}
		h := calendar.Holiday{Name: hf.Name, From: from, To: to, SurchargePercent: hf.SurchargePercent}
		if err := a.store.holidays.Save(ctx, h); err != nil {
			logger.Error("cannot store fixture holiday", "name", hf.Name, "error", err)
		}
	}
	return nil
}

func (f roomTypeFixture) toDomain(propertyID inventory.PropertyID) (*inventory.RoomType, error) {
	currency := f.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	base, err := money.New(f.BasePrice, currency)
	if err != nil {
		return nil, err
	}
	weekend := base
	if f.WeekendPrice > 0 {
		if weekend, err = money.New(f.WeekendPrice, currency); err != nil {
			return nil, err
		}
	}
	rt := &inventory.RoomType{
		ID:           inventory.RoomTypeID(f.ID),
		PropertyID:   propertyID,
		Name:         f.Name,
		TotalRooms:   f.TotalRooms,
		MaxAdults:    f.MaxAdults,
		MaxChildren:  f.MaxChildren,
		BasePrice:    base,
		WeekendPrice: weekend,
	}
	return rt, rt.Validate()
}
