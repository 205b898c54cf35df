package fill

import (
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

// FormDef binds logical field names to the consignment form's widgets. The
// selector strings are environment fixtures for the target ERP build; the
// engine itself only sees FieldSpecs.
type FormDef struct {
	Main       []entity.FieldSpec
	Item       []entity.FieldSpec
	Identifier string
	Consignee  string

	GSTToggle entity.FieldSpec
	Duplicate []entity.Strategy

	AddItem    []entity.Strategy
	AddInvoice []entity.Strategy
	CloseItem  []entity.Strategy
	Rate       entity.FieldSpec
}

// ConsignmentForm is the field map for the ERP's Consignment entry screen.
func ConsignmentForm() FormDef {
	return FormDef{
		Identifier: "ConsignmentNo",
		Consignee:  "Consignee",
		Main: []entity.FieldSpec{
			{
				Name:       "ConsignmentNo",
				Strategies: []entity.Strategy{entity.CSS("#CNM_VNOSEQ")},
				Kind:       entity.KindText,
				Compare:    entity.CompareExact,
				Required:   true,
				Commit:     true,
				JSONKeys:   []string{"ConsignmentNo", "Consignment No", "consignment_no"},
				Checkpoint: "08_consignment_no",
			},
			{
				Name:       "Date",
				Strategies: []entity.Strategy{entity.CSS("#CNM_VDATE")},
				Kind:       entity.KindText,
				Compare:    entity.CompareDate,
				Required:   true,
				Commit:     true,
				JSONKeys:   []string{"Date", "ConsignmentDate", "consignment_date"},
				Checkpoint: "09_date_filled",
			},
			{
				Name:       "Source",
				Strategies: []entity.Strategy{entity.CSS("#CNM_FROM_STN_NAME")},
				Kind:       entity.KindAutocomplete,
				Compare:    entity.CompareExact,
				Required:   true,
				JSONKeys:   []string{"Source", "From", "from_station"},
				Checkpoint: "10_source_filled",
			},
			{
				Name:       "Destination",
				Strategies: []entity.Strategy{entity.CSS("#CNM_TO_STN_NAME")},
				Kind:       entity.KindAutocomplete,
				Compare:    entity.CompareExact,
				Required:   true,
				JSONKeys:   []string{"Destination", "To", "to_station"},
				Checkpoint: "11_destination_filled",
			},
			{
				Name:       "Vehicle",
				Strategies: []entity.Strategy{entity.CSS("#CNM_VEHICLENO")},
				Kind:       entity.KindAutocomplete,
				Compare:    entity.CompareExact,
				Required:   true,
				JSONKeys:   []string{"Vehicle", "VehicleNo", "vehicle_no"},
				Checkpoint: "12_vehicle_filled",
			},
			{
				Name:       "EWayBillNo",
				Strategies: []entity.Strategy{entity.CSS("#CNM_EWAYBILLNO")},
				Kind:       entity.KindText,
				Compare:    entity.CompareExact,
				Commit:     true,
				JSONKeys:   []string{"EWayBillNo", "E-Way Bill No", "eway_bill_no"},
				Checkpoint: "13_ewaybill_filled",
			},
			{
				Name:       "Consignor",
				Strategies: []entity.Strategy{entity.CSS("#CNM_CNR_NAME")},
				Kind:       entity.KindAutocomplete,
				Compare:    entity.CompareContains,
				JSONKeys:   []string{"Consignor", "consignor_name"},
				Checkpoint: "15_consignor_filled",
			},
			{
				Name:       "GSTType",
				Strategies: []entity.Strategy{entity.CSS("#CNM_CNE_REGTYPE")},
				Kind:       entity.KindSelect,
				Compare:    entity.CompareExact,
				JSONKeys:   []string{"GSTType", "GST Type", "gst_type", "GSTRegistrationType"},
				Checkpoint: "17_gsttype_filled",
			},
			{
				Name:       "Consignee",
				Strategies: []entity.Strategy{entity.CSS("#CNM_CNE_NAME")},
				Kind:       entity.KindAutocomplete,
				Compare:    entity.CompareExact,
				Required:   true,
				JSONKeys:   []string{"Consignee", "consignee_name"},
				Checkpoint: "18_consignee_filled",
			},
			{
				Name:       "Delivery Address",
				Strategies: []entity.Strategy{entity.CSS("#CNM_DLV_ADDRESS")},
				Kind:       entity.KindText,
				Compare:    entity.CompareContains,
				JSONKeys:   []string{"Delivery Address", "DeliveryAddress", "delivery_address"},
				Checkpoint: "19_deliveryaddress_filled",
			},
		},
		Item: []entity.FieldSpec{
			{
				Name:       "Invoice No",
				Strategies: []entity.Strategy{entity.XPath("//*[@id='InvcNo']")},
				Kind:       entity.KindText,
				Compare:    entity.CompareExact,
				JSONKeys:   []string{"Invoice No", "InvoiceNo", "invoice_no"},
			},
			{
				Name: "ContentName",
				Strategies: []entity.Strategy{
					entity.XPath("//*[@id='Name' and (self::input or self::textarea)]"),
					entity.CSS("#Name"),
					entity.XPath("//input[@name='Name' and not(@type='hidden')]"),
					entity.XPath("//input[contains(@id,'Name') and not(@type='hidden')]"),
					entity.XPath("//input[contains(translate(@placeholder,'abcdefghijklmnopqrstuvwxyz','ABCDEFGHIJKLMNOPQRSTUVWXYZ'),'CONTENT')]"),
				},
				Kind:       entity.KindComputed,
				Compare:    entity.CompareFuzzy,
				Required:   true,
				JSONKeys:   []string{"ContentName", "Content Name", "content", "itemname"},
				Checkpoint: "22_insertitem_contentname",
			},
			{
				Name:       "ActualWeight",
				Strategies: []entity.Strategy{entity.XPath("//*[@id='Actual']")},
				Kind:       entity.KindText,
				Compare:    entity.CompareNumeric,
				JSONKeys:   []string{"ActualWeight", "Actual Weight", "actual_weight"},
			},
			{
				Name:       "Invoice Date",
				Strategies: []entity.Strategy{entity.XPath("//*[@id='InvcDate']")},
				Kind:       entity.KindText,
				Compare:    entity.CompareDate,
				JSONKeys:   []string{"Invoice Date", "InvoiceDate", "invoice_date"},
			},
			{
				Name:       "E-Way Bill Date",
				Strategies: []entity.Strategy{entity.XPath("//*[@id='EwayBillDate']")},
				Kind:       entity.KindText,
				Compare:    entity.CompareDate,
				JSONKeys:   []string{"E-Way Bill Date", "EwayBillDate", "eway_bill_date"},
			},
			{
				Name:       "E-WayBill ValidUpto",
				Strategies: []entity.Strategy{entity.XPath("//*[@id='EwayBillExpDate']")},
				Kind:       entity.KindText,
				Compare:    entity.CompareDate,
				JSONKeys:   []string{"E-WayBill ValidUpto", "EwayBillValidUpto", "eway_bill_valid_upto"},
			},
			{
				Name:       "E-Way Bill NO",
				Strategies: []entity.Strategy{entity.XPath("//*[@id='EwayBillNo']")},
				Kind:       entity.KindText,
				Compare:    entity.CompareExact,
				JSONKeys:   []string{"E-Way Bill NO", "eway_bill_item_no"},
			},
		},
		GSTToggle: entity.FieldSpec{
			Name:       "GSTType",
			Strategies: []entity.Strategy{entity.CSS("#CNM_CNE_REGTYPE")},
			Kind:       entity.KindSelect,
			Compare:    entity.CompareExact,
		},
		Duplicate: []entity.Strategy{
			entity.CSS("#duplicate-warning"),
			entity.XPath("//div[contains(@class,'modal') and contains(.,'already exists')]"),
			entity.XPath("//*[contains(text(),'Consignment No already exists')]"),
		},
		AddItem: []entity.Strategy{entity.CSS("#btnAddItem")},
		AddInvoice: []entity.Strategy{
			entity.XPath("//*[@id='btnInsert']"),
		},
		CloseItem: []entity.Strategy{
			entity.XPath("//*[@id='frvclose']"),
		},
		Rate: entity.FieldSpec{
			Name:       "Get Rate",
			Strategies: []entity.Strategy{entity.XPath("//*[@id='CNM_RATE']")},
			Kind:       entity.KindText,
			Compare:    entity.CompareNumeric,
			Commit:     true,
			JSONKeys:   []string{"Get Rate", "Rate", "rate"},
			Checkpoint: "27_rate_filled",
		},
	}
}
