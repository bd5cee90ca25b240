package api

// Entities as they appear on the wire.

// User is a user and the total balance of its bills.
type User struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Balance float64 `json:"balance"`
}

// Bill is an account owned by one user.
type Bill struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// Tag is a user-scoped label.
type Tag struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID string `json:"user_id"`
}

// Transaction is the projection of a transaction. Income is true for
// income and false for expense. Date is dd.MM.yyyy.
type Transaction struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Income      bool    `json:"income"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	UserID      string  `json:"user_id"`
	BillID      string  `json:"bill_id"`
	Tags        []Tag   `json:"tags"`
}

// TagTotals is the income and expense of the transactions carrying one tag.
type TagTotals struct {
	TagID   string  `json:"tag_id"`
	Title   string  `json:"title"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Summary aggregates a user's transactions.
type Summary struct {
	Income  float64     `json:"income"`
	Expense float64     `json:"expense"`
	Net     float64     `json:"net"`
	Count   int         `json:"count"`
	ByTag   []TagTotals `json:"by_tag"`
}

// Empty is the response of calls that return nothing.
type Empty struct{}

// UserService

// CreateUserRequest registers a user with a zero balance.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// GetUserRequest names one user.
type GetUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListUsersRequest lists every user.
type ListUsersRequest struct{}

// ListUsersResponse carries every user.
type ListUsersResponse struct {
	Users []User `json:"users"`
}

// UpdateUserRequest changes a user's name and email.
type UpdateUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email"`
}

// DeleteUserRequest removes a user with everything it owns.
type DeleteUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// UserResponse carries one user.
type UserResponse struct {
	User User `json:"user"`
}

// BillService

// CreateBillRequest opens a bill with an initial balance.
type CreateBillRequest struct {
	UserID  string  `json:"user_id" validate:"required,uuid"`
	Name    string  `json:"name" validate:"required,max=100"`
	Balance float64 `json:"balance" validate:"gte=0"`
}

// GetBillRequest names one bill.
type GetBillRequest struct {
	BillID string `json:"bill_id" validate:"required,uuid"`
}

// ListBillsRequest lists a user's bills.
type ListBillsRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListBillsResponse carries a user's bills.
type ListBillsResponse struct {
	Bills []Bill `json:"bills"`
}

// UpdateBillRequest renames a bill and sets its balance.
type UpdateBillRequest struct {
	BillID  string  `json:"bill_id" validate:"required,uuid"`
	Name    string  `json:"name" validate:"required,max=100"`
	Balance float64 `json:"balance" validate:"gte=0"`
}

// DeleteBillRequest removes a bill and its transactions.
type DeleteBillRequest struct {
	BillID string `json:"bill_id" validate:"required,uuid"`
}

// BillResponse carries one bill.
type BillResponse struct {
	Bill Bill `json:"bill"`
}

// TransactionService

// ListTransactionsRequest lists a user's transactions.
type ListTransactionsRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListTransactionsForBillRequest lists a bill's transactions.
type ListTransactionsForBillRequest struct {
	BillID string `json:"bill_id" validate:"required,uuid"`
}

// ListTransactionsResponse carries transactions ordered by date.
type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// GetTransactionRequest names one transaction.
type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
}

// CreateTransactionRequest creates a transaction. TagIDs may be omitted.
type CreateTransactionRequest struct {
	UserID      string   `json:"user_id" validate:"required,uuid"`
	BillID      string   `json:"bill_id" validate:"required,uuid"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Income      bool     `json:"income"`
	Amount      float64  `json:"amount" validate:"gte=0,lte=1000000"`
	Date        string   `json:"date" validate:"required,date"`
	TagIDs      []string `json:"tag_ids" validate:"omitempty,dive,uuid"`
}

// UpdateTransactionRequest edits a transaction. UserID and BillID must
// repeat the current values. An absent or null tag_ids keeps the current
// tags, an empty array clears them.
type UpdateTransactionRequest struct {
	TransactionID string   `json:"transaction_id" validate:"required,uuid"`
	UserID        string   `json:"user_id" validate:"required,uuid"`
	BillID        string   `json:"bill_id" validate:"required,uuid"`
	Name          string   `json:"name" validate:"required,max=100"`
	Description   string   `json:"description" validate:"max=1000"`
	Income        bool     `json:"income"`
	Amount        float64  `json:"amount" validate:"gte=0,lte=1000000"`
	Date          string   `json:"date" validate:"required,date"`
	TagIDs        []string `json:"tag_ids" validate:"omitempty,dive,uuid"`
}

// DeleteTransactionRequest removes a transaction and reverses its effect.
type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
}

// TransactionResponse carries one transaction.
type TransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

// SummarizeRequest totals a user's transactions.
type SummarizeRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// SummarizeResponse carries the totals.
type SummarizeResponse struct {
	Summary Summary `json:"summary"`
}

// TagService

// CreateTagRequest creates one tag.
type CreateTagRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Title  string `json:"title" validate:"required,min=3,max=15"`
}

// TagInput is one entry of a bulk create. Titles shorter than three
// characters are skipped.
type TagInput struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Title  string `json:"title" validate:"max=15"`
}

// CreateTagsRequest creates tags in bulk.
type CreateTagsRequest struct {
	Tags []TagInput `json:"tags" validate:"required,min=1,dive"`
}

// CreateTagsResponse carries the tags that were created.
type CreateTagsResponse struct {
	Tags []Tag `json:"tags"`
}

// GetTagRequest names one tag.
type GetTagRequest struct {
	TagID string `json:"tag_id" validate:"required,uuid"`
}

// ListTagsRequest lists a user's tags.
type ListTagsRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListTagsResponse carries tags ordered by title.
type ListTagsResponse struct {
	Tags []Tag `json:"tags"`
}

// ListTransactionsForTagRequest lists the transactions carrying a tag.
type ListTransactionsForTagRequest struct {
	TagID string `json:"tag_id" validate:"required,uuid"`
}

// UpdateTagRequest renames a tag. UserID must be the tag's owner.
type UpdateTagRequest struct {
	TagID  string `json:"tag_id" validate:"required,uuid"`
	UserID string `json:"user_id" validate:"required,uuid"`
	Title  string `json:"title" validate:"required,min=3,max=15"`
}

// DeleteTagRequest removes a tag and unlinks it from its transactions.
type DeleteTagRequest struct {
	TagID string `json:"tag_id" validate:"required,uuid"`
}

// TagResponse carries one tag.
type TagResponse struct {
	Tag Tag `json:"tag"`
}

// AdminService

// ClearCacheRequest drops every cached transaction list.
type ClearCacheRequest struct{}

// ClearCacheForUserRequest drops one user's cached list.
type ClearCacheForUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// ListCachedUsersRequest lists the users whose transactions are cached.
type ListCachedUsersRequest struct{}

// ListCachedUsersResponse carries user IDs, most recently used first.
type ListCachedUsersResponse struct {
	UserIDs []string `json:"user_ids"`
}
