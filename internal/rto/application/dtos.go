package application

import (
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/rto/domain"
)

// RTOItemDTO is the API representation of a returned line
type RTOItemDTO struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// QCResultDTO is the API representation of an inspection outcome
type QCResultDTO struct {
	Passed      bool      `json:"passed"`
	Remarks     string    `json:"remarks,omitempty"`
	Images      []string  `json:"images,omitempty"`
	InspectedBy string    `json:"inspectedBy"`
	InspectedAt time.Time `json:"inspectedAt"`
}

// RTOEventDTO is the API representation of a return-to-origin event
type RTOEventDTO struct {
	ID                 string       `json:"id"`
	RTOID              string       `json:"rtoId"`
	ShipmentID         string       `json:"shipmentId"`
	OrderID            string       `json:"orderId"`
	CompanyID          string       `json:"companyId,omitempty"`
	WarehouseID        string       `json:"warehouseId"`
	AWB                string       `json:"awb,omitempty"`
	ReverseAWB         string       `json:"reverseAwb,omitempty"`
	Reason             string       `json:"reason"`
	TriggeredBy        string       `json:"triggeredBy"`
	Status             string       `json:"status"`
	Items              []RTOItemDTO `json:"items"`
	RequiresQC         bool         `json:"requiresQC"`
	QCResult           *QCResultDTO `json:"qcResult,omitempty"`
	Resolution         string       `json:"resolution,omitempty"`
	RTOCharges         float64      `json:"rtoCharges,omitempty"`
	ChargesDeducted    bool         `json:"chargesDeducted"`
	ExpectedReturnDate *time.Time   `json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *time.Time   `json:"actualReturnDate,omitempty"`
	InitiatedAt        time.Time    `json:"initiatedAt"`
	ResolvedAt         *time.Time   `json:"resolvedAt,omitempty"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// NotificationDTO is the seller-facing return summary
type NotificationDTO struct {
	AWB                string     `json:"awb"`
	ReverseAWB         string     `json:"reverseAwb"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	RTOReason          string     `json:"rtoReason"`
	RequiresQC         bool       `json:"requiresQC"`
}

// ToRTOEventDTO converts a domain RTO event to its DTO
func ToRTOEventDTO(rto *domain.RTOEvent) *RTOEventDTO {
	items := make([]RTOItemDTO, 0, len(rto.Items))
	for _, item := range rto.Items {
		items = append(items, RTOItemDTO{SKU: item.SKU, Quantity: item.Quantity})
	}

	dto := &RTOEventDTO{
		ID:                 rto.ID.Hex(),
		RTOID:              rto.RTOID,
		ShipmentID:         rto.ShipmentID,
		OrderID:            rto.OrderID,
		CompanyID:          rto.CompanyID,
		WarehouseID:        rto.WarehouseID,
		AWB:                rto.AWB,
		ReverseAWB:         rto.ReverseAWB,
		Reason:             string(rto.Reason),
		TriggeredBy:        string(rto.TriggeredBy),
		Status:             string(rto.Status),
		Items:              items,
		RequiresQC:         rto.RequiresQC,
		Resolution:         string(rto.Resolution),
		RTOCharges:         rto.RTOCharges,
		ChargesDeducted:    rto.ChargesDeducted,
		ExpectedReturnDate: rto.ExpectedReturnDate,
		ActualReturnDate:   rto.ActualReturnDate,
		InitiatedAt:        rto.InitiatedAt,
		ResolvedAt:         rto.ResolvedAt,
		UpdatedAt:          rto.UpdatedAt,
	}
	if rto.QCResult != nil {
		dto.QCResult = &QCResultDTO{
			Passed:      rto.QCResult.Passed,
			Remarks:     rto.QCResult.Remarks,
			Images:      rto.QCResult.Images,
			InspectedBy: rto.QCResult.InspectedBy,
			InspectedAt: rto.QCResult.InspectedAt,
		}
	}
	return dto
}

// ToRTOEventDTOs converts a slice of domain RTO events
func ToRTOEventDTOs(rtos []*domain.RTOEvent) []*RTOEventDTO {
	dtos := make([]*RTOEventDTO, 0, len(rtos))
	for _, rto := range rtos {
		dtos = append(dtos, ToRTOEventDTO(rto))
	}
	return dtos
}

// ToNotificationDTO converts a notification payload
func ToNotificationDTO(payload domain.NotificationPayload) *NotificationDTO {
	return &NotificationDTO{
		AWB:                payload.AWB,
		ReverseAWB:         payload.ReverseAWB,
		ExpectedReturnDate: payload.ExpectedReturnDate,
		RTOReason:          string(payload.RTOReason),
		RequiresQC:         payload.RequiresQC,
	}
}
