package memstore

import (
	bookingRepo "caretrust/database/repository/booking"
	counterRepo "caretrust/database/repository/counter"
	incidentRepo "caretrust/database/repository/incident"
	metricsRepo "caretrust/database/repository/metrics"
	notificationRepo "caretrust/database/repository/notification"
	rankingRepo "caretrust/database/repository/ranking"
	reviewRepo "caretrust/database/repository/review"
	userRepo "caretrust/database/repository/user"
)

var (
	_ userRepo.UserRepository                 = (*UserRepo)(nil)
	_ bookingRepo.BookingRepository           = (*BookingRepo)(nil)
	_ reviewRepo.ReviewRepository             = (*ReviewRepo)(nil)
	_ incidentRepo.IncidentRepository         = (*IncidentRepo)(nil)
	_ notificationRepo.NotificationRepository = (*NotificationRepo)(nil)
	_ metricsRepo.MetricsRepository           = (*MetricsRepo)(nil)
	_ counterRepo.SequenceStore               = (*SequenceStore)(nil)
	_ rankingRepo.Ranking                     = (*Ranking)(nil)
)
