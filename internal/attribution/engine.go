package attribution

import (
	"math"
	"sort"
	"time"

	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/enums"
)

// Attribution defaults for leads that arrived with no UTM parameters.
const (
	defaultSource   = "direct"
	defaultMedium   = "organic"
	defaultCampaign = "none"
)

const dateLayout = "2006-01-02"

// Summarize computes the headline metrics. Every rate carries a zero guard;
// an empty input yields an all-zero summary, never NaN.
func Summarize(rows []models.Lead) Summary {
	summary := Summary{TotalLeads: len(rows)}

	for _, lead := range rows {
		if lead.Status != enums.LeadStatusConverted {
			continue
		}
		summary.ConvertedLeads++
		if lead.OrderValue != nil {
			summary.TotalRevenue += *lead.OrderValue
		}
	}

	if summary.TotalLeads > 0 {
		summary.ConversionRate = round2(float64(summary.ConvertedLeads) / float64(summary.TotalLeads) * 100)
	}
	if summary.ConvertedLeads > 0 {
		summary.AverageOrderValue = round2(summary.TotalRevenue / float64(summary.ConvertedLeads))
	}
	summary.TotalRevenue = round2(summary.TotalRevenue)
	return summary
}

// GroupBySource partitions leads by (source, medium). Missing source falls
// back to "direct" and missing medium to "organic", so the groups always sum
// back to the input totals.
func GroupBySource(rows []models.Lead) []SourceGroup {
	type key struct{ source, medium string }
	groups := map[key]*SourceGroup{}

	for _, lead := range rows {
		k := key{
			source: stringOrDefault(lead.UTMSource, defaultSource),
			medium: stringOrDefault(lead.UTMMedium, defaultMedium),
		}
		group, ok := groups[k]
		if !ok {
			group = &SourceGroup{Source: k.source, Medium: k.medium}
			groups[k] = group
		}

		group.Leads++
		if lead.Status == enums.LeadStatusConverted {
			group.Conversions++
			if lead.OrderValue != nil {
				group.Revenue += *lead.OrderValue
			}
		}
	}

	out := make([]SourceGroup, 0, len(groups))
	for _, group := range groups {
		group.ConversionRate = round2(float64(group.Conversions) / float64(group.Leads) * 100)
		if group.Conversions > 0 {
			group.AverageOrderValue = round2(group.Revenue / float64(group.Conversions))
		}
		group.Revenue = round2(group.Revenue)
		out = append(out, *group)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Leads != out[j].Leads {
			return out[i].Leads > out[j].Leads
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Medium < out[j].Medium
	})
	return out
}

// GroupByCampaign partitions leads by (campaign, source, medium), with
// "none" standing in for absent campaigns.
func GroupByCampaign(rows []models.Lead) []CampaignGroup {
	type key struct{ campaign, source, medium string }
	groups := map[key]*CampaignGroup{}

	for _, lead := range rows {
		k := key{
			campaign: stringOrDefault(lead.UTMCampaign, defaultCampaign),
			source:   stringOrDefault(lead.UTMSource, defaultSource),
			medium:   stringOrDefault(lead.UTMMedium, defaultMedium),
		}
		group, ok := groups[k]
		if !ok {
			group = &CampaignGroup{Campaign: k.campaign, Source: k.source, Medium: k.medium}
			groups[k] = group
		}

		group.Leads++
		if lead.Status == enums.LeadStatusConverted {
			group.Conversions++
			if lead.OrderValue != nil {
				group.Revenue += *lead.OrderValue
			}
		}
	}

	out := make([]CampaignGroup, 0, len(groups))
	for _, group := range groups {
		group.ConversionRate = round2(float64(group.Conversions) / float64(group.Leads) * 100)
		group.Revenue = round2(group.Revenue)
		out = append(out, *group)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Leads != out[j].Leads {
			return out[i].Leads > out[j].Leads
		}
		if out[i].Campaign != out[j].Campaign {
			return out[i].Campaign < out[j].Campaign
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Medium < out[j].Medium
	})
	return out
}

// GroupByTimeframe builds one bucket per UTC calendar day across the
// inclusive [from, to] window, zero-activity days included. Lead counts key
// on creation date; conversion counts and revenue key on conversion date.
// Activity dated outside the window is dropped silently.
func GroupByTimeframe(rows []models.Lead, from, to time.Time) []TimeframeBucket {
	start := truncateToDay(from)
	end := truncateToDay(to)

	buckets := []TimeframeBucket{}
	index := map[string]int{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		index[date] = len(buckets)
		buckets = append(buckets, TimeframeBucket{Date: date})
	}

	for _, lead := range rows {
		if i, ok := index[lead.CreatedAt.UTC().Format(dateLayout)]; ok {
			buckets[i].Leads++
		}
		if lead.Status != enums.LeadStatusConverted || lead.ConvertedAt == nil {
			continue
		}
		if i, ok := index[lead.ConvertedAt.UTC().Format(dateLayout)]; ok {
			buckets[i].Conversions++
			if lead.OrderValue != nil {
				buckets[i].Revenue = round2(buckets[i].Revenue + *lead.OrderValue)
			}
		}
	}
	return buckets
}

// BuildFunnel reports the fixed four-stage funnel. Later stages count every
// lead that reached at least that stage, so the series is monotonically
// non-increasing.
func BuildFunnel(rows []models.Lead) []FunnelStage {
	total := len(rows)
	contacted := 0
	qualified := 0
	converted := 0

	for _, lead := range rows {
		switch lead.Status {
		case enums.LeadStatusContacted:
			contacted++
		case enums.LeadStatusQualified:
			contacted++
			qualified++
		case enums.LeadStatusConverted:
			contacted++
			qualified++
			converted++
		case enums.LeadStatusClosed:
			contacted++
			qualified++
		}
	}

	stage := func(name string, count int) FunnelStage {
		s := FunnelStage{Stage: name, Leads: count}
		if total > 0 {
			s.ConversionRate = round2(float64(count) / float64(total) * 100)
			s.DropOffRate = round2(float64(total-count) / float64(total) * 100)
		}
		return s
	}

	first := FunnelStage{Stage: "Lead Generated", Leads: total}
	if total > 0 {
		first.ConversionRate = 100
	}

	return []FunnelStage{
		first,
		stage("Contacted", contacted),
		stage("Qualified", qualified),
		stage("Converted", converted),
	}
}

func stringOrDefault(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
