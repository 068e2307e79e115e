package api

import (
	"fmt"
	"strings"
	"time"
)

// Entity types accepted by the telemetry, alarm and relation endpoints.
const (
	EntityTenant      = "TENANT"
	EntityCustomer    = "CUSTOMER"
	EntityUser        = "USER"
	EntityDevice      = "DEVICE"
	EntityAsset       = "ASSET"
	EntityDashboard   = "DASHBOARD"
	EntityAlarm       = "ALARM"
	EntityRuleChain   = "RULE_CHAIN"
	EntityEntityGroup = "ENTITY_GROUP"
	EntityEdge        = "EDGE"
)

// EntityTypes lists the entity types the CLI accepts as arguments.
var EntityTypes = []string{
	EntityTenant, EntityCustomer, EntityUser, EntityDevice, EntityAsset,
	EntityDashboard, EntityAlarm, EntityRuleChain, EntityEntityGroup, EntityEdge,
}

// NormalizeEntityType upper-cases t and maps dashes to underscores.
func NormalizeEntityType(t string) (string, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(t), "-", "_"))
	for _, known := range EntityTypes {
		if norm == known {
			return norm, nil
		}
	}
	return "", NewValidationError("entity type", t, EntityTypes)
}

// Millis is a ThingsBoard timestamp in milliseconds since the epoch.
type Millis int64

// Time converts the timestamp to time.Time in UTC.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

func (m Millis) String() string {
	if m == 0 {
		return ""
	}
	return m.Time().Format(time.RFC3339)
}

// EntityID identifies any ThingsBoard entity.
type EntityID struct {
	ID         string `json:"id"`
	EntityType string `json:"entityType"`
}

func (e EntityID) String() string {
	return fmt.Sprintf("%s:%s", e.EntityType, e.ID)
}

// PageData is the envelope of every paged listing.
type PageData[T any] struct {
	Data          []T  `json:"data"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	HasNext       bool `json:"hasNext"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the JWT pair.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type Tenant struct {
	ID          EntityID `json:"id"`
	CreatedTime Millis   `json:"createdTime"`
	Title       string   `json:"title"`
	Region      string   `json:"region,omitempty"`
	Email       string   `json:"email,omitempty"`
	Country     string   `json:"country,omitempty"`
	City        string   `json:"city,omitempty"`
}

type Customer struct {
	ID          *EntityID `json:"id,omitempty"`
	CreatedTime Millis    `json:"createdTime,omitempty"`
	TenantID    *EntityID `json:"tenantId,omitempty"`
	Title       string    `json:"title"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Country     string    `json:"country,omitempty"`
	City        string    `json:"city,omitempty"`
}

type Device struct {
	ID              *EntityID      `json:"id,omitempty"`
	CreatedTime     Millis         `json:"createdTime,omitempty"`
	TenantID        *EntityID      `json:"tenantId,omitempty"`
	CustomerID      *EntityID      `json:"customerId,omitempty"`
	Name            string         `json:"name"`
	Type            string         `json:"type,omitempty"`
	Label           string         `json:"label,omitempty"`
	DeviceProfileID *EntityID      `json:"deviceProfileId,omitempty"`
	AdditionalInfo  map[string]any `json:"additionalInfo,omitempty"`
}

type DeviceCredentials struct {
	ID               *EntityID `json:"id,omitempty"`
	DeviceID         EntityID  `json:"deviceId"`
	CredentialsType  string    `json:"credentialsType"`
	CredentialsID    string    `json:"credentialsId"`
	CredentialsValue string    `json:"credentialsValue,omitempty"`
}

type Asset struct {
	ID          *EntityID `json:"id,omitempty"`
	CreatedTime Millis    `json:"createdTime,omitempty"`
	CustomerID  *EntityID `json:"customerId,omitempty"`
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"`
	Label       string    `json:"label,omitempty"`
}

type Alarm struct {
	ID             EntityID  `json:"id"`
	CreatedTime    Millis    `json:"createdTime"`
	Type           string    `json:"type"`
	Originator     EntityID  `json:"originator"`
	OriginatorName string    `json:"originatorName,omitempty"`
	Severity       string    `json:"severity"`
	Status         string    `json:"status"`
	Acknowledged   bool      `json:"acknowledged"`
	Cleared        bool      `json:"cleared"`
	AssigneeID     *EntityID `json:"assigneeId,omitempty"`
	StartTs        Millis    `json:"startTs"`
	EndTs          Millis    `json:"endTs"`
}

type DashboardInfo struct {
	ID          EntityID `json:"id"`
	CreatedTime Millis   `json:"createdTime"`
	Title       string   `json:"title"`
	Public      bool     `json:"public,omitempty"`
}

type User struct {
	ID          EntityID  `json:"id"`
	CreatedTime Millis    `json:"createdTime"`
	TenantID    *EntityID `json:"tenantId,omitempty"`
	CustomerID  *EntityID `json:"customerId,omitempty"`
	Email       string    `json:"email"`
	Authority   string    `json:"authority"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
}

type EntityGroup struct {
	ID       EntityID `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	OwnerID  EntityID `json:"ownerId"`
	GroupAll bool     `json:"groupAll,omitempty"`
}

type RuleChain struct {
	ID          EntityID `json:"id"`
	CreatedTime Millis   `json:"createdTime"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Root        bool     `json:"root"`
	DebugMode   bool     `json:"debugMode,omitempty"`
}

type ImageInfo struct {
	ID           EntityID `json:"id"`
	CreatedTime  Millis   `json:"createdTime"`
	Title        string   `json:"title"`
	ResourceKey  string   `json:"resourceKey"`
	ResourceType string   `json:"resourceType"`
	Link         string   `json:"link"`
	PublicLink   string   `json:"publicLink,omitempty"`
}

// TsValue is one time series sample. Values arrive as strings unless the
// request asked for strict data types.
type TsValue struct {
	Ts    Millis `json:"ts"`
	Value any    `json:"value"`
}

// AttributeKV is one attribute as returned by the values endpoints.
type AttributeKV struct {
	Key          string `json:"key"`
	Value        any    `json:"value"`
	LastUpdateTs Millis `json:"lastUpdateTs"`
}
