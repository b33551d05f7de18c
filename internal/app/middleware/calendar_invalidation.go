package middleware

import (
	"context"
	"log/slog"

	"qbooking/internal/app/commands"
	"qbooking/internal/app/policies"
)

// CalendarScoped is implemented by command results that changed a room type's inventory.
type CalendarScoped interface {
	CalendarScope() (propertyID, roomTypeID int64)
}

// CalendarInvalidation bumps the cached calendar of the room type a successful
// command touched. It must wrap the transaction so the bump follows the commit.
func CalendarInvalidation(cache policies.CalendarCache, logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		if cache == nil {
			return next
		}
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if scoped, ok := res.(CalendarScoped); ok {
				propertyID, roomTypeID := scoped.CalendarScope()
				if err := cache.Bump(ctx, propertyID, roomTypeID); err != nil && logger != nil {
					logger.ErrorContext(ctx, "calendar cache bump failed", "property_id", propertyID, "room_type_id", roomTypeID, "error", err)
				}
			}
			return res, nil
		})
	}
}
