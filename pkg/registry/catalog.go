// Package registry knows the MQTT entity kinds and fetches their schemas,
// either from a schema registry over HTTP or from CRD manifests on disk.
package registry

import (
	"sort"
	"strings"
)

const (
	// Group is the API group of every entity kind.
	Group = "mqtt.home-assistant.io"
	// Version is the served API version.
	Version = "v1alpha1"
)

// APIVersion is the apiVersion written into resources.
func APIVersion() string {
	return Group + "/" + Version
}

// EntityType describes one entity kind.
type EntityType struct {
	Kind        string `json:"kind"`
	Plural      string `json:"plural"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CRDName returns the CustomResourceDefinition name of the kind.
func (t EntityType) CRDName() string {
	return t.Plural + "." + Group
}

// Singular returns the lowercase singular resource name.
func (t EntityType) Singular() string {
	return strings.ToLower(t.Kind)
}

// Categories in display order.
var Categories = []string{
	"Controls", "Sensors", "Lighting", "Climate", "Security",
	"Covers", "Devices", "Media", "Tracking", "Utility",
}

// Catalog lists every known entity kind.
var Catalog = []EntityType{
	{Kind: "MQTTButton", Plural: "mqttbuttons", Description: "Stateless button that publishes when pressed", Category: "Controls"},
	{Kind: "MQTTSwitch", Plural: "mqttswitches", Description: "On/off switch with state", Category: "Controls"},
	{Kind: "MQTTScene", Plural: "mqttscenes", Description: "Scene activation", Category: "Controls"},
	{Kind: "MQTTSelect", Plural: "mqttselects", Description: "Dropdown selector from options", Category: "Controls"},
	{Kind: "MQTTNumber", Plural: "mqttnumbers", Description: "Numeric input with min/max", Category: "Controls"},
	{Kind: "MQTTText", Plural: "mqtttexts", Description: "Text input field", Category: "Controls"},
	{Kind: "MQTTSensor", Plural: "mqttsensors", Description: "Read-only sensor value", Category: "Sensors"},
	{Kind: "MQTTBinarySensor", Plural: "mqttbinarysensors", Description: "On/off sensor state", Category: "Sensors"},
	{Kind: "MQTTEvent", Plural: "mqttevents", Description: "Event trigger entity", Category: "Sensors"},
	{Kind: "MQTTLight", Plural: "mqttlights", Description: "Light with brightness/color", Category: "Lighting"},
	{Kind: "MQTTClimate", Plural: "mqttclimates", Description: "HVAC/thermostat control", Category: "Climate"},
	{Kind: "MQTTHumidifier", Plural: "mqtthumidifiers", Description: "Humidifier/dehumidifier", Category: "Climate"},
	{Kind: "MQTTWaterHeater", Plural: "mqttwaterheaters", Description: "Water heater control", Category: "Climate"},
	{Kind: "MQTTFan", Plural: "mqttfans", Description: "Fan with speed control", Category: "Climate"},
	{Kind: "MQTTLock", Plural: "mqttlocks", Description: "Lock/unlock control", Category: "Security"},
	{Kind: "MQTTAlarmControlPanel", Plural: "mqttalarmcontrolpanels", Description: "Alarm system control", Category: "Security"},
	{Kind: "MQTTCover", Plural: "mqttcovers", Description: "Blinds/garage doors", Category: "Covers"},
	{Kind: "MQTTValve", Plural: "mqttvalves", Description: "Water/gas valve control", Category: "Covers"},
	{Kind: "MQTTVacuum", Plural: "mqttvacuums", Description: "Robot vacuum control", Category: "Devices"},
	{Kind: "MQTTLawnMower", Plural: "mqttlawnmowers", Description: "Robot lawn mower", Category: "Devices"},
	{Kind: "MQTTSiren", Plural: "mqttsirens", Description: "Siren/alarm device", Category: "Devices"},
	{Kind: "MQTTCamera", Plural: "mqttcameras", Description: "Camera image entity", Category: "Media"},
	{Kind: "MQTTImage", Plural: "mqttimages", Description: "Static image entity", Category: "Media"},
	{Kind: "MQTTNotify", Plural: "mqttnotifies", Description: "Notification service", Category: "Media"},
	{Kind: "MQTTUpdate", Plural: "mqttupdates", Description: "Firmware update entity", Category: "Media"},
	{Kind: "MQTTDeviceTracker", Plural: "mqttdevicetrackers", Description: "Device location tracking", Category: "Tracking"},
	{Kind: "MQTTTag", Plural: "mqtttags", Description: "NFC/RFID tag scanner", Category: "Tracking"},
	{Kind: "MQTTDeviceTrigger", Plural: "mqttdevicetriggers", Description: "Device automation trigger", Category: "Tracking"},
	{Kind: "MQTTDevice", Plural: "mqttdevices", Description: "Shared device configuration", Category: "Utility"},
}

// Lookup finds a kind in the catalog. Matching ignores case so "mqttlight"
// resolves to MQTTLight.
func Lookup(kind string) (EntityType, bool) {
	for _, t := range Catalog {
		if strings.EqualFold(t.Kind, kind) {
			return t, true
		}
	}
	return EntityType{}, false
}

// Kinds returns the catalog kinds sorted by name.
func Kinds() []string {
	out := make([]string, 0, len(Catalog))
	for _, t := range Catalog {
		out = append(out, t.Kind)
	}
	sort.Strings(out)
	return out
}

// ByCategory groups types by category, keeping their relative order.
func ByCategory(types []EntityType) map[string][]EntityType {
	out := make(map[string][]EntityType)
	for _, t := range types {
		out[t.Category] = append(out[t.Category], t)
	}
	return out
}
