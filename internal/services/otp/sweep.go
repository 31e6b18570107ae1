// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp

import "context"

// SweepJob runs Sweep from the in-process scheduler.
type SweepJob struct {
	svc *Service
}

func NewSweepJob(svc *Service) *SweepJob {
	return &SweepJob{svc: svc}
}

func (j *SweepJob) Name() string {
	return "otp_sweep"
}

func (j *SweepJob) Run(ctx context.Context) error {
	return j.svc.Sweep(ctx)
}
