package registry

import "github.com/emernav/backend/internal/domain/entities"

// Wire types for the registry's search response. Field names follow the
// registry's JSON contract.

type searchEnvelope struct {
	Message string        `json:"message"`
	Result  *searchResult `json:"result"`
}

type searchResult struct {
	Data []facilityDTO `json:"data"`
}

type facilityDTO struct {
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Address         string         `json:"address"`
	WiredHotline    string         `json:"wiredHotline"`
	WirelessHotline string         `json:"wirelessHotline"`
	TypeCode        string         `json:"typeCode"`
	Distance        float64        `json:"distance"`
	EmergencyBay    *capabilityDTO `json:"rltmEmerCd"`
	Admission       *capabilityDTO `json:"rltmCd"`
	SevereCondition *capabilityDTO `json:"svdssCd"`
	Equipment       *capabilityDTO `json:"rltmMeCd"`
	ERMessages      []noticeDTO    `json:"erMessages"`
	Unavailable     []noticeDTO    `json:"unavailableMessages"`
}

type capabilityDTO struct {
	Elements map[string]elementDTO `json:"elements"`
}

type elementDTO struct {
	AvailableLevel string `json:"availableLevel"`
	Usable         *int   `json:"usable"`
	Total          *int   `json:"total"`
}

type noticeDTO struct {
	Message string `json:"message"`
}

func (d facilityDTO) toEntity() entities.FacilityRecord {
	return entities.FacilityRecord{
		ID:                 d.Code,
		Name:               d.Name,
		Address:            d.Address,
		WiredTel:           d.WiredHotline,
		WirelessTel:        d.WirelessHotline,
		TierCode:           d.TypeCode,
		DistanceKm:         d.Distance,
		Bed:                d.EmergencyBay.toElements(),
		Admission:          d.Admission.toElements(),
		SevereCondition:    d.SevereCondition.toElements(),
		Equipment:          d.Equipment.toElements(),
		Notices:            toNotices(d.ERMessages),
		UnavailableNotices: toNotices(d.Unavailable),
	}
}

func (d *capabilityDTO) toElements() map[string]entities.AvailabilityElement {
	if d == nil || len(d.Elements) == 0 {
		return nil
	}
	elements := make(map[string]entities.AvailabilityElement, len(d.Elements))
	for code, el := range d.Elements {
		elements[code] = entities.AvailabilityElement{
			AvailableLevel: entities.AvailabilityLevel(el.AvailableLevel),
			Usable:         el.Usable,
			Total:          el.Total,
		}
	}
	return elements
}

func toNotices(dtos []noticeDTO) []entities.FacilityNotice {
	if len(dtos) == 0 {
		return nil
	}
	notices := make([]entities.FacilityNotice, 0, len(dtos))
	for _, dto := range dtos {
		notices = append(notices, entities.FacilityNotice{Message: dto.Message})
	}
	return notices
}
