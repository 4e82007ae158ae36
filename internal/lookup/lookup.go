package lookup

import (
	"encoding/json"
	"fmt"
	"net/url"

	"guildmirror/internal/common"

	"github.com/rs/zerolog/log"
)

// Route for IP geolocation. The free tier allows 45 requests per minute,
// which the proxy's rate limiter enforces on our side
const ROUTE_IP_INFO = "http://ip-api.com/json/%s"

// Route for url shortening
const ROUTE_SHORTEN = "https://tinyurl.com/api-create.php?url=%s"

// IpInfo is the response of the geolocation API
type IpInfo struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Query       string  `json:"query"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Isp         string  `json:"isp"`
	Org         string  `json:"org"`
	As          string  `json:"as"`
}

// Client answers the lookup commands through the rate limited proxy
type Client struct {
	proxy common.Proxy
}

func NewClient(restrictions []common.Restriction) Client {
	return Client{proxy: common.NewProxy(map[string]string{}, restrictions)}
}

func (client *Client) GetIpInfo(ip string) (IpInfo, error) {

	// Request
	requestUrl := fmt.Sprintf(ROUTE_IP_INFO, ip)
	data := client.request(requestUrl)
	if data == nil {
		return IpInfo{}, fmt.Errorf("could not look up ip %s", ip)
	}

	// Decode
	var info IpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return IpInfo{}, err
	}
	if info.Status == "fail" {
		return IpInfo{}, fmt.Errorf("lookup of ip %s failed: %s", ip, info.Message)
	}

	return info, nil
}

func (client *Client) Shorten(longUrl string) (string, error) {

	// Request. The response body is the shortened url in plain text
	requestUrl := fmt.Sprintf(ROUTE_SHORTEN, url.QueryEscape(longUrl))
	data := client.request(requestUrl)
	if data == nil {
		return "", fmt.Errorf("could not shorten url %s", longUrl)
	}

	return string(data), nil
}

func (client *Client) request(url string) []byte {
	log.Debug().Msg(fmt.Sprintf("Requesting to url %s", url))
	return client.proxy.Request(url, false)
}
