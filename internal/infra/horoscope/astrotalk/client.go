package astrotalk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/zodiac"
)

const defaultBaseURL = "https://astrotalk.com/horoscope"

// Horoscope pages render every topic as a paragraph under one container
// class. The site exposes no semantic markup, so fields are identified by
// paragraph position within that container.
const paragraphSelector = ".parah_aries_horocope p"

// Paragraph offsets per field. Monthly pages interleave topic paragraphs
// with headings, hence the gaps.
const (
	dailyPersonal = iota
	dailyTravel
	dailyMoney
	dailyCareer
	dailyHealth
	dailyEmotions
)

const (
	monthlyLove           = 0
	monthlyLoveDetails    = 1
	monthlyHealth         = 3
	monthlyHealthDetails  = 4
	monthlyCareer         = 6
	monthlyCareerDetails  = 7
	monthlyMoney          = 9
	monthlyMoneyDetails   = 10
	monthlyImportantDates = 12
	monthlyTip            = 14
)

// Client scrapes horoscope pages from astrotalk.com.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds the scraper client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(url, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and parses one horoscope page. It fails closed: a page
// yielding no recognizable fields returns horoscope.ErrUnparseable instead of
// a struct of empty strings.
func (c *Client) Fetch(ctx context.Context, sign zodiac.Sign, variant horoscope.Variant) (any, error) {
	endpoint := fmt.Sprintf("%s/%s-horoscope/%s", c.baseURL, pagePrefix(variant), strings.ToLower(string(sign)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build horoscope request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("horoscope request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("horoscope request error: status=%d url=%s", resp.StatusCode, endpoint)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse horoscope page: %w", err)
	}

	paragraphs := doc.Find(paragraphSelector)
	if variant == horoscope.VariantMonthly {
		return parseMonthly(paragraphs)
	}
	return parseDaily(paragraphs)
}

func pagePrefix(variant horoscope.Variant) string {
	switch variant {
	case horoscope.VariantMonthly:
		return "monthly"
	case horoscope.VariantTomorrow:
		return "tomorrow"
	default:
		return "todays"
	}
}

func parseDaily(paragraphs *goquery.Selection) (*horoscope.Daily, error) {
	daily := &horoscope.Daily{
		Personal: paragraphText(paragraphs, dailyPersonal),
		Travel:   paragraphText(paragraphs, dailyTravel),
		Money:    paragraphText(paragraphs, dailyMoney),
		Career:   paragraphText(paragraphs, dailyCareer),
		Health:   paragraphText(paragraphs, dailyHealth),
		Emotions: paragraphText(paragraphs, dailyEmotions),
	}
	if allEmpty(daily.Personal, daily.Travel, daily.Money, daily.Career, daily.Health, daily.Emotions) {
		return nil, horoscope.ErrUnparseable
	}
	return daily, nil
}

func parseMonthly(paragraphs *goquery.Selection) (*horoscope.Monthly, error) {
	monthly := &horoscope.Monthly{
		LoveRelationship:        paragraphText(paragraphs, monthlyLove),
		LoveRelationshipDetails: paragraphText(paragraphs, monthlyLoveDetails),
		HealthWellness:          paragraphText(paragraphs, monthlyHealth),
		HealthDetails:           paragraphText(paragraphs, monthlyHealthDetails),
		CareerEducation:         paragraphText(paragraphs, monthlyCareer),
		CareerDetails:           paragraphText(paragraphs, monthlyCareerDetails),
		MoneyFinances:           paragraphText(paragraphs, monthlyMoney),
		MoneyDetails:            paragraphText(paragraphs, monthlyMoneyDetails),
		ImportantDates:          paragraphText(paragraphs, monthlyImportantDates),
		TipOfTheMonth:           paragraphText(paragraphs, monthlyTip),
	}
	if allEmpty(
		monthly.LoveRelationship, monthly.LoveRelationshipDetails,
		monthly.HealthWellness, monthly.HealthDetails,
		monthly.CareerEducation, monthly.CareerDetails,
		monthly.MoneyFinances, monthly.MoneyDetails,
		monthly.ImportantDates, monthly.TipOfTheMonth,
	) {
		return nil, horoscope.ErrUnparseable
	}
	return monthly, nil
}

func paragraphText(paragraphs *goquery.Selection, index int) string {
	return strings.TrimSpace(paragraphs.Eq(index).Text())
}

func allEmpty(values ...string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

var _ horoscope.Fetcher = (*Client)(nil)
