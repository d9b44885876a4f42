// Package main provides the entry point for the MeetingMinder service.
// It runs a REST API using the Fiber framework that manages meeting rooms,
// users, roles and room reservations. The service uses gorm for data
// persistence and rejects reservations whose time window conflicts with an
// existing reservation of the same room.
package main
