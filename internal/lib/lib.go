// Package lib groups the integrations that do not fit strictly into the
// handler, service or repository layers.
//
// Subpackages: email (Resend), push (OneSignal), footballdata
// (football-data.org), flags (feature flags), fetch (polled remote
// resources), job (asynq workers and the cron scheduler) and utils.
package lib
