package services

import "github.com/prometheus/client_golang/prometheus"

var appointmentsBooked = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "appointments_booked_total",
	Help: "Appointments booked, labelled by the combo applied.",
}, []string{"combo"})

func init() {
	prometheus.MustRegister(appointmentsBooked)
}
