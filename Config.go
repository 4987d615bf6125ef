/*
File Name:  Config.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package core

import (
	_ "embed" // Required for embedding default Config file
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SkylinkProject/core/protocol"
)

// Version is the current core library version
const Version = "0.1"

// Config describes one network instance: the drone roster with its wiring and
// the runtime environment around it.
type Config struct {
	LogFile string `yaml:"LogFile"` // Log file

	APIListen []string `yaml:"APIListen"` // IP:Port combinations for the web API. Empty disables it.
	APIKey    string   `yaml:"APIKey"`    // UUID protecting the web API. Empty disables authentication.

	// ChannelBuffer is the capacity of every packet and command channel.
	// Default 256.
	ChannelBuffer int `yaml:"ChannelBuffer"`

	// Drone roster. Neighbor references must stay within the roster; the
	// controller wires external clients and servers at runtime via AddSender.
	Drones []DroneConfig `yaml:"Drones"`
}

// DroneConfig is one drone of the roster.
type DroneConfig struct {
	ID        protocol.NodeID   `yaml:"ID"`
	DropRate  float64           `yaml:"DropRate"` // Must be within [0,1]
	Neighbors []protocol.NodeID `yaml:"Neighbors"`

	// Settings overrides the drone's default settings. Absent fields keep
	// their defaults.
	Settings *DroneSettingsConfig `yaml:"Settings"`
}

// DroneSettingsConfig is the YAML form of DroneSettings. The two settings that
// default to true are pointers so that an absent key is distinguishable from an
// explicit false.
type DroneSettingsConfig struct {
	LogToStdout               bool  `yaml:"LogToStdout"`
	ForwardDelayMs            int   `yaml:"ForwardDelayMs"`
	AwaitQueuedPacketsOnCrash *bool `yaml:"AwaitQueuedPacketsOnCrash"`
	FilterPackets             *bool `yaml:"FilterPackets"`
	SendNackOnFilteredPacket  bool  `yaml:"SendNackOnFilteredPacket"`
	CorruptPayloads           bool  `yaml:"CorruptPayloads"`
}

// Apply merges the overrides into existing settings.
func (c *DroneSettingsConfig) Apply(settings *DroneSettings) {
	settings.LogToStdout = c.LogToStdout
	settings.ForwardDelay = time.Duration(c.ForwardDelayMs) * time.Millisecond
	if c.AwaitQueuedPacketsOnCrash != nil {
		settings.AwaitQueuedPacketsOnCrash = *c.AwaitQueuedPacketsOnCrash
	}
	if c.FilterPackets != nil {
		settings.FilterPackets = *c.FilterPackets
	}
	settings.SendNackOnFilteredPacket = c.SendNackOnFilteredPacket
	settings.CorruptPayloads = c.CorruptPayloads
}

//go:embed "Config Default.yaml"
var defaultConfig []byte

// LoadConfig reads the YAML configuration file. A missing or empty file falls
// back to the embedded default. If an error is returned, the application shall
// exit. Status: 0 = Unknown error checking config file, 1 = Error reading
// config file, 2 = Error parsing config file, 3 = Success.
func LoadConfig(filename string) (config *Config, status int, err error) {
	var configData []byte

	// check if the file is non existent or empty
	stats, err := os.Stat(filename)
	if err != nil && os.IsNotExist(err) || err == nil && stats.Size() == 0 {
		configData = defaultConfig
	} else if err != nil {
		return nil, 0, err
	} else if configData, err = os.ReadFile(filename); err != nil {
		return nil, 1, err
	}

	config = &Config{}
	if err = yaml.Unmarshal(configData, config); err != nil {
		return nil, 2, err
	}

	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = 256
	}

	return config, 3, nil
}

// InitLog redirects subsequent log messages into the given log file.
func InitLog(logFile string) (err error) {
	file, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	//defer file.Close()	// has to remain open until program closes

	log.SetOutput(file)
	log.Printf("---- Skylink Core "+Version+" started %s ----\n", time.Now().Format(time.RFC3339))

	return nil
}
