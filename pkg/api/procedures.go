package api

// Fully-qualified service names.
const (
	UserServiceName        = "financery.v1.UserService"
	BillServiceName        = "financery.v1.BillService"
	TransactionServiceName = "financery.v1.TransactionService"
	TagServiceName         = "financery.v1.TagService"
	AdminServiceName       = "financery.v1.AdminService"
)

// Procedure paths. They are the URL paths served by the handlers and the
// suffixes clients append to the base URL.
const (
	UserServiceCreateUserProcedure = "/" + UserServiceName + "/CreateUser"
	UserServiceGetUserProcedure    = "/" + UserServiceName + "/GetUser"
	UserServiceListUsersProcedure  = "/" + UserServiceName + "/ListUsers"
	UserServiceUpdateUserProcedure = "/" + UserServiceName + "/UpdateUser"
	UserServiceDeleteUserProcedure = "/" + UserServiceName + "/DeleteUser"

	BillServiceCreateBillProcedure = "/" + BillServiceName + "/CreateBill"
	BillServiceGetBillProcedure    = "/" + BillServiceName + "/GetBill"
	BillServiceListBillsProcedure  = "/" + BillServiceName + "/ListBills"
	BillServiceUpdateBillProcedure = "/" + BillServiceName + "/UpdateBill"
	BillServiceDeleteBillProcedure = "/" + BillServiceName + "/DeleteBill"

	TransactionServiceListTransactionsProcedure        = "/" + TransactionServiceName + "/ListTransactions"
	TransactionServiceListTransactionsForBillProcedure = "/" + TransactionServiceName + "/ListTransactionsForBill"
	TransactionServiceGetTransactionProcedure          = "/" + TransactionServiceName + "/GetTransaction"
	TransactionServiceCreateTransactionProcedure       = "/" + TransactionServiceName + "/CreateTransaction"
	TransactionServiceUpdateTransactionProcedure       = "/" + TransactionServiceName + "/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure       = "/" + TransactionServiceName + "/DeleteTransaction"
	TransactionServiceSummarizeProcedure               = "/" + TransactionServiceName + "/Summarize"

	TagServiceCreateTagProcedure              = "/" + TagServiceName + "/CreateTag"
	TagServiceCreateTagsProcedure             = "/" + TagServiceName + "/CreateTags"
	TagServiceGetTagProcedure                 = "/" + TagServiceName + "/GetTag"
	TagServiceListTagsProcedure               = "/" + TagServiceName + "/ListTags"
	TagServiceListTransactionsForTagProcedure = "/" + TagServiceName + "/ListTransactionsForTag"
	TagServiceUpdateTagProcedure              = "/" + TagServiceName + "/UpdateTag"
	TagServiceDeleteTagProcedure              = "/" + TagServiceName + "/DeleteTag"

	AdminServiceClearCacheProcedure        = "/" + AdminServiceName + "/ClearCache"
	AdminServiceClearCacheForUserProcedure = "/" + AdminServiceName + "/ClearCacheForUser"
	AdminServiceListCachedUsersProcedure   = "/" + AdminServiceName + "/ListCachedUsers"
)
