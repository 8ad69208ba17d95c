package apiclient

import "github.com/edvin/mitra-admin/internal/session"

// API bundles every resource client over one base URL and session.
type API struct {
	Auth               *AuthClient
	Products           *ProductsClient
	Users              *UsersClient
	BusinessCategories *BusinessCategoriesClient
	SubSectors         *SubSectorsClient
	Articles           *ArticlesClient
	MasterData         *MasterDataClient
}

func New(baseURL string, store session.Store, opts ...Option) *API {
	public := NewPublicClient(baseURL, opts...)
	private := NewAuthenticatedClient(baseURL, store, opts...)

	return &API{
		Auth:               &AuthClient{public: public, session: store},
		Products:           &ProductsClient{public: public, private: private},
		Users:              &UsersClient{private: private},
		BusinessCategories: &BusinessCategoriesClient{public: public, private: private},
		SubSectors:         &SubSectorsClient{public: public, private: private},
		Articles:           &ArticlesClient{private: private},
		MasterData:         &MasterDataClient{public: public},
	}
}
