package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, svc *booking.Services) error
}
