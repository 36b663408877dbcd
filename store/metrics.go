package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var seededEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "socialfeed_seeded_entities",
	Help: "The number of entities generated by the last seed, by entity type",
}, []string{"entity"})
