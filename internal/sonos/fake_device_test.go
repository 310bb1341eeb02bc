package sonos

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

const descriptionPath = "/xml/device_description.xml"

const deviceDescription = `<?xml version="1.0" encoding="utf-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:ZonePlayer:1</deviceType>
    <friendlyName>127.0.0.1 - Sonos One - %[1]s</friendlyName>
    <manufacturer>Sonos, Inc.</manufacturer>
    <modelName>Sonos One</modelName>
    <UDN>uuid:%[1]s</UDN>
    <serviceList>
      %[2]s
      <service>
        <serviceType>urn:schemas-upnp-org:service:DeviceProperties:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:DeviceProperties</serviceId>
        <controlURL>/DeviceProperties/Control</controlURL>
        <eventSubURL>/DeviceProperties/Event</eventSubURL>
        <SCPDURL>/xml/DeviceProperties1.xml</SCPDURL>
      </service>
    </serviceList>
    <deviceList>
      <device>
        <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
        <friendlyName>Media Renderer</friendlyName>
        <UDN>uuid:%[1]s_MR</UDN>
        <serviceList>
          <service>
            <serviceType>urn:schemas-upnp-org:service:AVTransport:1</serviceType>
            <serviceId>urn:upnp-org:serviceId:AVTransport</serviceId>
            <controlURL>/MediaRenderer/AVTransport/Control</controlURL>
            <eventSubURL>/MediaRenderer/AVTransport/Event</eventSubURL>
            <SCPDURL>/xml/AVTransport1.xml</SCPDURL>
          </service>
        </serviceList>
      </device>
    </deviceList>
  </device>
</root>`

const musicServicesEntry = `<service>
        <serviceType>urn:schemas-upnp-org:service:MusicServices:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:MusicServices</serviceId>
        <controlURL>/MusicServices/Control</controlURL>
        <eventSubURL>/MusicServices/Event</eventSubURL>
        <SCPDURL>/xml/MusicServices1.xml</SCPDURL>
      </service>`

const soapResponse = `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/"><s:Body>%s</s:Body></s:Envelope>`

const soapFault = `<s:Fault><faultcode>s:Client</faultcode><faultstring>UPnPError</faultstring><detail><UPnPError xmlns="urn:schemas-upnp-org:control-1-0"><errorCode>800</errorCode></UPnPError></detail></s:Fault>`

// fakeDevice serves a Sonos-like device description and the SOAP actions
// sonosync uses.
type fakeDevice struct {
	server   *httptest.Server
	uuid     string
	zone     string
	music    bool
	rejectAV bool

	mu       sync.Mutex
	requests []string
}

func newFakeDevice(t *testing.T, uuid, zone string, music bool) *fakeDevice {
	t.Helper()
	d := &fakeDevice{uuid: uuid, zone: zone, music: music}
	d.server = httptest.NewServer(http.HandlerFunc(d.handle))
	t.Cleanup(d.server.Close)
	return d
}

func (d *fakeDevice) location() string {
	return d.server.URL + descriptionPath
}

func (d *fakeDevice) locationURL(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse(d.location())
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	return u
}

func (d *fakeDevice) bodies() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.requests...)
}

func (d *fakeDevice) handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case descriptionPath:
		services := ""
		if d.music {
			services = musicServicesEntry
		}
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprintf(w, deviceDescription, d.uuid, services)
		return
	case "/DeviceProperties/Control", "/MediaRenderer/AVTransport/Control":
	default:
		http.NotFound(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	d.mu.Lock()
	d.requests = append(d.requests, string(body))
	d.mu.Unlock()

	action := r.Header.Get("SOAPACTION")
	w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)

	switch {
	case strings.Contains(action, "#GetZoneAttributes"):
		fmt.Fprintf(w, soapResponse, fmt.Sprintf(
			`<u:GetZoneAttributesResponse xmlns:u="urn:schemas-upnp-org:service:DeviceProperties:1"><CurrentZoneName>%s</CurrentZoneName><CurrentIcon>x-rincon-roomicon:living</CurrentIcon><CurrentConfiguration>1</CurrentConfiguration></u:GetZoneAttributesResponse>`,
			d.zone))
	case strings.Contains(action, "#SetAVTransportURI"):
		if d.rejectAV {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, soapResponse, soapFault)
			return
		}
		fmt.Fprintf(w, soapResponse,
			`<u:SetAVTransportURIResponse xmlns:u="urn:schemas-upnp-org:service:AVTransport:1"></u:SetAVTransportURIResponse>`)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, soapResponse, soapFault)
	}
}
