package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// POS
	&MenuItem{},
	&SaleRecord{},
	&SaleItem{},
}
