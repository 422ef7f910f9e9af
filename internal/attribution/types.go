package attribution

import "time"

// Summary holds the headline metrics over the reporting window.
type Summary struct {
	TotalLeads        int     `json:"totalLeads"`
	ConvertedLeads    int     `json:"convertedLeads"`
	ConversionRate    float64 `json:"conversionRate"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// SourceGroup aggregates leads sharing a (source, medium) pair.
type SourceGroup struct {
	Source            string  `json:"source"`
	Medium            string  `json:"medium"`
	Leads             int     `json:"leads"`
	Conversions       int     `json:"conversions"`
	ConversionRate    float64 `json:"conversionRate"`
	Revenue           float64 `json:"revenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// CampaignGroup aggregates leads sharing a (campaign, source, medium) triple.
type CampaignGroup struct {
	Campaign       string  `json:"campaign"`
	Source         string  `json:"source"`
	Medium         string  `json:"medium"`
	Leads          int     `json:"leads"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversionRate"`
	Revenue        float64 `json:"revenue"`
}

// TimeframeBucket is one calendar day (UTC) of activity. Lead counts follow
// creation dates; conversions and revenue follow conversion dates.
type TimeframeBucket struct {
	Date        string  `json:"date"`
	Leads       int     `json:"leads"`
	Conversions int     `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// FunnelStage is one step of the fixed four-stage funnel.
type FunnelStage struct {
	Stage          string  `json:"stage"`
	Leads          int     `json:"leads"`
	ConversionRate float64 `json:"conversionRate"`
	DropOffRate    float64 `json:"dropOffRate"`
}

// DateRange is the resolved inclusive reporting window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Report is the full attribution report returned to callers.
type Report struct {
	Success        bool              `json:"success"`
	DateRange      DateRange         `json:"dateRange"`
	Summary        Summary           `json:"summary"`
	BySource       []SourceGroup     `json:"bySource"`
	ByCampaign     []CampaignGroup   `json:"byCampaign"`
	ByTimeframe    []TimeframeBucket `json:"byTimeframe"`
	FunnelAnalysis []FunnelStage     `json:"funnelAnalysis"`
}
