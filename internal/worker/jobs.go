package worker

import "hotel-booking/internal/usecase"

// BookingJobs are the sweeps that drive time-based booking transitions.
func BookingJobs(service usecase.BookingService) []Job {
	return []Job{
		{Name: "expire_payments", Run: service.ExpirePayments},
		{Name: "complete_stays", Run: service.CompleteStays},
	}
}
