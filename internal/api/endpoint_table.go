package api

import "net/http"

const (
	pageQuery     = "pageSize,page,textSearch,sortProperty,sortOrder"
	typePageQuery = "pageSize,page,type,textSearch,sortProperty,sortOrder"
)

var paged = []string{"pageSize", "page"}

var endpoints = []Endpoint{
	// auth
	{Operation: "login", Tag: "auth-controller", Method: http.MethodPost, Path: "/api/auth/login", Body: BodyRequired, Summary: "Log in with username and password"},
	{Operation: "refreshToken", Tag: "auth-controller", Method: http.MethodPost, Path: "/api/auth/token", Body: BodyRequired, Summary: "Exchange a refresh token for a new JWT pair"},
	{Operation: "getUser", Tag: "auth-controller", Method: http.MethodGet, Path: "/api/auth/user", Summary: "Get the current user"},
	{Operation: "logout", Tag: "auth-controller", Method: http.MethodPost, Path: "/api/auth/logout", Summary: "Log out"},
	{Operation: "changePassword", Tag: "auth-controller", Method: http.MethodPost, Path: "/api/auth/changePassword", Body: BodyRequired, Summary: "Change the current user's password"},
	{Operation: "activateUser", Tag: "auth-controller", Method: http.MethodPost, Path: "/api/noauth/activate{?sendActivationMail}", Body: BodyRequired, Summary: "Activate a user with an activation token"},

	// tenants
	{Operation: "getTenants", Tag: "tenant-controller", Method: http.MethodGet, Path: "/api/tenants{?" + pageQuery + "}", Required: paged, Summary: "List tenants"},
	{Operation: "getTenantById", Tag: "tenant-controller", Method: http.MethodGet, Path: "/api/tenant/{tenantId}", Summary: "Get a tenant"},
	{Operation: "getTenantInfoById", Tag: "tenant-controller", Method: http.MethodGet, Path: "/api/tenant/info/{tenantId}", Summary: "Get tenant info"},
	{Operation: "saveTenant", Tag: "tenant-controller", Method: http.MethodPost, Path: "/api/tenant", Body: BodyRequired, Summary: "Create or update a tenant"},
	{Operation: "deleteTenant", Tag: "tenant-controller", Method: http.MethodDelete, Path: "/api/tenant/{tenantId}", Summary: "Delete a tenant"},

	// customers
	{Operation: "getCustomers", Tag: "customer-controller", Method: http.MethodGet, Path: "/api/customers{?" + pageQuery + "}", Required: paged, Summary: "List tenant customers"},
	{Operation: "getUserCustomers", Tag: "customer-controller", Method: http.MethodGet, Path: "/api/user/customers{?" + pageQuery + "}", Required: paged, Summary: "List customers visible to the user"},
	{Operation: "getCustomerById", Tag: "customer-controller", Method: http.MethodGet, Path: "/api/customer/{customerId}", Summary: "Get a customer"},
	{Operation: "getTenantCustomer", Tag: "customer-controller", Method: http.MethodGet, Path: "/api/tenant/customers{?customerTitle}", Required: []string{"customerTitle"}, Summary: "Find a customer by title"},
	{Operation: "saveCustomer", Tag: "customer-controller", Method: http.MethodPost, Path: "/api/customer{?entityGroupId}", Body: BodyRequired, Summary: "Create or update a customer"},
	{Operation: "deleteCustomer", Tag: "customer-controller", Method: http.MethodDelete, Path: "/api/customer/{customerId}", Summary: "Delete a customer"},

	// devices
	{Operation: "getTenantDevices", Tag: "device-controller", Method: http.MethodGet, Path: "/api/tenant/devices{?" + typePageQuery + "}", Required: paged, Summary: "List tenant devices"},
	{Operation: "getTenantDevice", Tag: "device-controller", Method: http.MethodGet, Path: "/api/tenant/devices{?deviceName}", Required: []string{"deviceName"}, Summary: "Find a tenant device by name"},
	{Operation: "getUserDevices", Tag: "device-controller", Method: http.MethodGet, Path: "/api/user/devices{?" + typePageQuery + "}", Required: paged, Summary: "List devices visible to the user"},
	{Operation: "getCustomerDevices", Tag: "device-controller", Method: http.MethodGet, Path: "/api/customer/{customerId}/devices{?" + typePageQuery + "}", Required: paged, Summary: "List customer devices"},
	{Operation: "getDevicesByIds", Tag: "device-controller", Method: http.MethodGet, Path: "/api/devices{?deviceIds}", Required: []string{"deviceIds"}, Summary: "Get devices by comma separated ids"},
	{Operation: "getDeviceById", Tag: "device-controller", Method: http.MethodGet, Path: "/api/device/{deviceId}", Summary: "Get a device"},
	{Operation: "getDeviceInfoById", Tag: "device-controller", Method: http.MethodGet, Path: "/api/device/info/{deviceId}", Summary: "Get device info"},
	{Operation: "saveDevice", Tag: "device-controller", Method: http.MethodPost, Path: "/api/device{?accessToken,entityGroupId}", Body: BodyRequired, Summary: "Create or update a device"},
	{Operation: "deleteDevice", Tag: "device-controller", Method: http.MethodDelete, Path: "/api/device/{deviceId}", Summary: "Delete a device"},
	{Operation: "getDeviceTypes", Tag: "device-controller", Method: http.MethodGet, Path: "/api/device/types", Summary: "List device types"},
	{Operation: "getDeviceCredentialsByDeviceId", Tag: "device-controller", Method: http.MethodGet, Path: "/api/device/{deviceId}/credentials", Summary: "Get device credentials"},
	{Operation: "updateDeviceCredentials", Tag: "device-controller", Method: http.MethodPost, Path: "/api/device/credentials", Body: BodyRequired, Summary: "Update device credentials"},
	{Operation: "claimDevice", Tag: "device-controller", Method: http.MethodPost, Path: "/api/customer/device/{deviceName}/claim", Body: BodyOptional, Summary: "Claim a device"},
	{Operation: "reClaimDevice", Tag: "device-controller", Method: http.MethodDelete, Path: "/api/customer/device/{deviceName}/claim", Summary: "Reclaim a device"},

	// device profiles
	{Operation: "getDeviceProfiles", Tag: "device-profile-controller", Method: http.MethodGet, Path: "/api/deviceProfiles{?" + pageQuery + "}", Required: paged, Summary: "List device profiles"},
	{Operation: "getDeviceProfileById", Tag: "device-profile-controller", Method: http.MethodGet, Path: "/api/deviceProfile/{deviceProfileId}", Summary: "Get a device profile"},
	{Operation: "getDefaultDeviceProfileInfo", Tag: "device-profile-controller", Method: http.MethodGet, Path: "/api/deviceProfileInfo/default", Summary: "Get the default device profile"},
	{Operation: "saveDeviceProfile", Tag: "device-profile-controller", Method: http.MethodPost, Path: "/api/deviceProfile", Body: BodyRequired, Summary: "Create or update a device profile"},
	{Operation: "deleteDeviceProfile", Tag: "device-profile-controller", Method: http.MethodDelete, Path: "/api/deviceProfile/{deviceProfileId}", Summary: "Delete a device profile"},
	{Operation: "setDefaultDeviceProfile", Tag: "device-profile-controller", Method: http.MethodPost, Path: "/api/deviceProfile/{deviceProfileId}/default", Summary: "Make a device profile the default"},

	// assets
	{Operation: "getTenantAssets", Tag: "asset-controller", Method: http.MethodGet, Path: "/api/tenant/assets{?" + typePageQuery + "}", Required: paged, Summary: "List tenant assets"},
	{Operation: "getTenantAsset", Tag: "asset-controller", Method: http.MethodGet, Path: "/api/tenant/assets{?assetName}", Required: []string{"assetName"}, Summary: "Find a tenant asset by name"},
	{Operation: "getUserAssets", Tag: "asset-controller", Method: http.MethodGet, Path: "/api/user/assets{?" + typePageQuery + "}", Required: paged, Summary: "List assets visible to the user"},
	{Operation: "getAssetsByIds", Tag: "asset-controller", Method: http.MethodGet, Path: "/api/assets{?assetIds}", Required: []string{"assetIds"}, Summary: "Get assets by comma separated ids"},
	{Operation: "getAssetById", Tag: "asset-controller", Method: http.MethodGet, Path: "/api/asset/{assetId}", Summary: "Get an asset"},
	{Operation: "saveAsset", Tag: "asset-controller", Method: http.MethodPost, Path: "/api/asset{?entityGroupId}", Body: BodyRequired, Summary: "Create or update an asset"},
	{Operation: "deleteAsset", Tag: "asset-controller", Method: http.MethodDelete, Path: "/api/asset/{assetId}", Summary: "Delete an asset"},
	{Operation: "getAssetTypes", Tag: "asset-controller", Method: http.MethodGet, Path: "/api/asset/types", Summary: "List asset types"},
	{Operation: "getAssetProfiles", Tag: "asset-profile-controller", Method: http.MethodGet, Path: "/api/assetProfiles{?" + pageQuery + "}", Required: paged, Summary: "List asset profiles"},

	// alarms
	{Operation: "getAlarmById", Tag: "alarm-controller", Method: http.MethodGet, Path: "/api/alarm/{alarmId}", Summary: "Get an alarm"},
	{Operation: "getAlarmInfoById", Tag: "alarm-controller", Method: http.MethodGet, Path: "/api/alarm/info/{alarmId}", Summary: "Get alarm info"},
	{Operation: "saveAlarm", Tag: "alarm-controller", Method: http.MethodPost, Path: "/api/alarm", Body: BodyRequired, Summary: "Create or update an alarm"},
	{Operation: "deleteAlarm", Tag: "alarm-controller", Method: http.MethodDelete, Path: "/api/alarm/{alarmId}", Summary: "Delete an alarm"},
	{Operation: "ackAlarm", Tag: "alarm-controller", Method: http.MethodPost, Path: "/api/alarm/{alarmId}/ack", Summary: "Acknowledge an alarm"},
	{Operation: "clearAlarm", Tag: "alarm-controller", Method: http.MethodPost, Path: "/api/alarm/{alarmId}/clear", Summary: "Clear an alarm"},
	{Operation: "assignAlarm", Tag: "alarm-controller", Method: http.MethodPost, Path: "/api/alarm/{alarmId}/assign/{assigneeId}", Summary: "Assign an alarm to a user"},
	{Operation: "unassignAlarm", Tag: "alarm-controller", Method: http.MethodDelete, Path: "/api/alarm/{alarmId}/assign", Summary: "Unassign an alarm"},
	{Operation: "getAlarms", Tag: "alarm-controller", Method: http.MethodGet, Path: "/api/alarm/{entityType}/{entityId}{?searchStatus,status,pageSize,page,textSearch,sortProperty,sortOrder,startTime,endTime,fetchOriginator}", Required: paged, Summary: "List alarms of an entity"},
	{Operation: "getAllAlarms", Tag: "alarm-controller", Method: http.MethodGet, Path: "/api/alarms{?searchStatus,status,assigneeId,pageSize,page,textSearch,sortProperty,sortOrder,startTime,endTime,fetchOriginator}", Required: paged, Summary: "List all alarms"},
	{Operation: "getHighestAlarmSeverity", Tag: "alarm-controller", Method: http.MethodGet, Path: "/api/alarm/highestSeverity/{entityType}/{entityId}{?searchStatus,status}", Summary: "Get the highest alarm severity of an entity"},

	// dashboards
	{Operation: "getTenantDashboards", Tag: "dashboard-controller", Method: http.MethodGet, Path: "/api/tenant/dashboards{?pageSize,page,mobile,textSearch,sortProperty,sortOrder}", Required: paged, Summary: "List tenant dashboards"},
	{Operation: "getUserDashboards", Tag: "dashboard-controller", Method: http.MethodGet, Path: "/api/user/dashboards{?pageSize,page,mobile,textSearch,sortProperty,sortOrder,operation,userId}", Required: paged, Summary: "List dashboards visible to the user"},
	{Operation: "getDashboardById", Tag: "dashboard-controller", Method: http.MethodGet, Path: "/api/dashboard/{dashboardId}", Summary: "Get a dashboard"},
	{Operation: "getDashboardInfoById", Tag: "dashboard-controller", Method: http.MethodGet, Path: "/api/dashboard/info/{dashboardId}", Summary: "Get dashboard info"},
	{Operation: "getHomeDashboard", Tag: "dashboard-controller", Method: http.MethodGet, Path: "/api/dashboard/home", Summary: "Get the home dashboard"},
	{Operation: "saveDashboard", Tag: "dashboard-controller", Method: http.MethodPost, Path: "/api/dashboard{?entityGroupId}", Body: BodyRequired, Summary: "Create or update a dashboard"},
	{Operation: "deleteDashboard", Tag: "dashboard-controller", Method: http.MethodDelete, Path: "/api/dashboard/{dashboardId}", Summary: "Delete a dashboard"},

	// users
	{Operation: "getUsers", Tag: "user-controller", Method: http.MethodGet, Path: "/api/user/users{?" + pageQuery + "}", Required: paged, Summary: "List users visible to the user"},
	{Operation: "getTenantAdmins", Tag: "user-controller", Method: http.MethodGet, Path: "/api/tenant/{tenantId}/users{?" + pageQuery + "}", Required: paged, Summary: "List tenant administrators"},
	{Operation: "getCustomerUsers", Tag: "user-controller", Method: http.MethodGet, Path: "/api/customer/{customerId}/users{?" + pageQuery + "}", Required: paged, Summary: "List customer users"},
	{Operation: "getUserById", Tag: "user-controller", Method: http.MethodGet, Path: "/api/user/{userId}", Summary: "Get a user"},
	{Operation: "saveUser", Tag: "user-controller", Method: http.MethodPost, Path: "/api/user{?sendActivationMail,entityGroupId}", Body: BodyRequired, Summary: "Create or update a user"},
	{Operation: "deleteUser", Tag: "user-controller", Method: http.MethodDelete, Path: "/api/user/{userId}", Summary: "Delete a user"},
	{Operation: "getUserToken", Tag: "user-controller", Method: http.MethodGet, Path: "/api/user/{userId}/token", Summary: "Get a JWT for a user"},
	{Operation: "getActivationLink", Tag: "user-controller", Method: http.MethodGet, Path: "/api/user/{userId}/activationLink", Summary: "Get a user activation link"},
	{Operation: "setUserCredentialsEnabled", Tag: "user-controller", Method: http.MethodPost, Path: "/api/user/{userId}/userCredentialsEnabled{?userCredentialsEnabled}", Summary: "Enable or disable user credentials"},

	// telemetry
	{Operation: "getAttributeKeys", Tag: "telemetry-controller", Method: http.MethodGet, Path: "/api/plugins/telemetry/{entityType}/{entityId}/keys/attributes", Summary: "List attribute keys"},
	{Operation: "getAttributeKeysByScope", Tag: "telemetry-controller", Method: http.MethodGet, Path: "/api/plugins/telemetry/{entityType}/{entityId}/keys/attributes/{scope}", Summary: "List attribute keys in a scope"},
	{Operation: "getAttributes", Tag: "telemetry-controller", Method: http.MethodGet, Path: "/api/plugins/telemetry/{entityType}/{entityId}/values/attributes{?keys}", Summary: "Get attribute values"},
	{Operation: "getAttributesByScope", Tag: "telemetry-controller", Method: http.MethodGet, Path: "/api/plugins/telemetry/{entityType}/{entityId}/values/attributes/{scope}{?keys}", Summary: "Get attribute values in a scope"},
	{Operation: "getTimeseriesKeys", Tag: "telemetry-controller", Method: http.MethodGet, Path: "/api/plugins/telemetry/{entityType}/{entityId}/keys/timeseries", Summary: "List time series keys"},
	{Operation: "getLatestTimeseries", Tag: "telemetry-controller", Method: http.MethodGet, Path: "/api/plugins/telemetry/{entityType}/{entityId}/values/timeseries{?keys,useStrictDataTypes}", Summary: "Get latest time series values"},
	{Operation: "getTimeseries", Tag: "telemetry-controller", Method: http.MethodGet, Path: "/api/plugins/telemetry/{entityType}/{entityId}/values/timeseries{?keys,startTs,endTs,interval,limit,agg,orderBy,useStrictDataTypes}", Required: []string{"keys", "startTs", "endTs"}, Summary: "Get time series history"},
	{Operation: "saveEntityAttributesV2", Tag: "telemetry-controller", Method: http.MethodPost, Path: "/api/plugins/telemetry/{entityType}/{entityId}/attributes/{scope}", Body: BodyRequired, Summary: "Save entity attributes"},
	{Operation: "saveEntityTelemetry", Tag: "telemetry-controller", Method: http.MethodPost, Path: "/api/plugins/telemetry/{entityType}/{entityId}/timeseries/{scope}", Body: BodyRequired, Summary: "Save entity time series"},
	{Operation: "saveEntityTelemetryWithTTL", Tag: "telemetry-controller", Method: http.MethodPost, Path: "/api/plugins/telemetry/{entityType}/{entityId}/timeseries/{scope}/{ttl}", Body: BodyRequired, Summary: "Save entity time series with a TTL"},
	{Operation: "deleteEntityAttributes", Tag: "telemetry-controller", Method: http.MethodDelete, Path: "/api/plugins/telemetry/{entityType}/{entityId}/{scope}{?keys}", Required: []string{"keys"}, Summary: "Delete entity attributes"},
	{Operation: "deleteEntityTimeseries", Tag: "telemetry-controller", Method: http.MethodDelete, Path: "/api/plugins/telemetry/{entityType}/{entityId}/timeseries/delete{?keys,deleteAllDataForKeys,startTs,endTs,rewriteLatestIfDeleted}", Required: []string{"keys"}, Summary: "Delete entity time series"},

	// relations
	{Operation: "saveRelation", Tag: "entity-relation-controller", Method: http.MethodPost, Path: "/api/relation", Body: BodyRequired, Summary: "Create a relation"},
	{Operation: "deleteRelation", Tag: "entity-relation-controller", Method: http.MethodDelete, Path: "/api/relation{?fromId,fromType,relationType,relationTypeGroup,toId,toType}", Required: []string{"fromId", "fromType", "relationType", "toId", "toType"}, Summary: "Delete a relation"},
	{Operation: "findByFrom", Tag: "entity-relation-controller", Method: http.MethodGet, Path: "/api/relations{?fromId,fromType,relationTypeGroup}", Required: []string{"fromId", "fromType"}, Summary: "List relations from an entity"},
	{Operation: "findByTo", Tag: "entity-relation-controller", Method: http.MethodGet, Path: "/api/relations{?toId,toType,relationTypeGroup}", Required: []string{"toId", "toType"}, Summary: "List relations to an entity"},
	{Operation: "findInfoByFrom", Tag: "entity-relation-controller", Method: http.MethodGet, Path: "/api/relations/info{?fromId,fromType,relationTypeGroup}", Required: []string{"fromId", "fromType"}, Summary: "List relation infos from an entity"},

	// entity groups
	{Operation: "getEntityGroupById", Tag: "entity-group-controller", Method: http.MethodGet, Path: "/api/entityGroup/{entityGroupId}", Summary: "Get an entity group"},
	{Operation: "getEntityGroupsByType", Tag: "entity-group-controller", Method: http.MethodGet, Path: "/api/entityGroups/{groupType}{?includeShared}", Summary: "List entity groups of a type"},
	{Operation: "getEntityGroupByOwnerAndNameAndType", Tag: "entity-group-controller", Method: http.MethodGet, Path: "/api/entityGroup/{ownerType}/{ownerId}/{groupType}/{groupName}", Summary: "Find an entity group by owner, type and name"},
	{Operation: "saveEntityGroup", Tag: "entity-group-controller", Method: http.MethodPost, Path: "/api/entityGroup", Body: BodyRequired, Summary: "Create or update an entity group"},
	{Operation: "deleteEntityGroup", Tag: "entity-group-controller", Method: http.MethodDelete, Path: "/api/entityGroup/{entityGroupId}", Summary: "Delete an entity group"},
	{Operation: "getEntities", Tag: "entity-group-controller", Method: http.MethodGet, Path: "/api/entityGroup/{entityGroupId}/entities{?" + pageQuery + "}", Required: paged, Summary: "List entities in a group"},
	{Operation: "addEntitiesToEntityGroup", Tag: "entity-group-controller", Method: http.MethodPost, Path: "/api/entityGroup/{entityGroupId}/addEntities", Body: BodyRequired, Summary: "Add entities to a group"},
	{Operation: "removeEntitiesFromEntityGroup", Tag: "entity-group-controller", Method: http.MethodPost, Path: "/api/entityGroup/{entityGroupId}/deleteEntities", Body: BodyRequired, Summary: "Remove entities from a group"},
	{Operation: "shareEntityGroup", Tag: "entity-group-controller", Method: http.MethodPost, Path: "/api/entityGroup/{entityGroupId}/share", Body: BodyRequired, Summary: "Share an entity group"},

	// rule chains
	{Operation: "getRuleChains", Tag: "rule-chain-controller", Method: http.MethodGet, Path: "/api/ruleChains{?" + typePageQuery + "}", Required: paged, Summary: "List rule chains"},
	{Operation: "getRuleChainById", Tag: "rule-chain-controller", Method: http.MethodGet, Path: "/api/ruleChain/{ruleChainId}", Summary: "Get a rule chain"},
	{Operation: "getRuleChainMetaData", Tag: "rule-chain-controller", Method: http.MethodGet, Path: "/api/ruleChain/{ruleChainId}/metadata", Summary: "Get rule chain metadata"},
	{Operation: "saveRuleChain", Tag: "rule-chain-controller", Method: http.MethodPost, Path: "/api/ruleChain", Body: BodyRequired, Summary: "Create or update a rule chain"},
	{Operation: "deleteRuleChain", Tag: "rule-chain-controller", Method: http.MethodDelete, Path: "/api/ruleChain/{ruleChainId}", Summary: "Delete a rule chain"},
	{Operation: "setRootRuleChain", Tag: "rule-chain-controller", Method: http.MethodPost, Path: "/api/ruleChain/{ruleChainId}/root", Summary: "Make a rule chain the root"},

	// images
	{Operation: "uploadImage", Tag: "image-controller", Method: http.MethodPost, Path: "/api/image", Form: []string{"file", "title", "imageSubType"}, Required: []string{"file"}, Consumes: contentTypeMultipart, Summary: "Upload an image"},
	{Operation: "updateImage", Tag: "image-controller", Method: http.MethodPut, Path: "/api/images/{type}/{key}", Form: []string{"file"}, Required: []string{"file"}, Consumes: contentTypeMultipart, Summary: "Replace image content"},
	{Operation: "getImages", Tag: "image-controller", Method: http.MethodGet, Path: "/api/images{?imageSubType,includeSystemImages,pageSize,page,textSearch,sortProperty,sortOrder}", Required: paged, Summary: "List images"},
	{Operation: "getImageInfo", Tag: "image-controller", Method: http.MethodGet, Path: "/api/images/{type}/{key}/info", Summary: "Get image info"},
	{Operation: "downloadImage", Tag: "image-controller", Method: http.MethodGet, Path: "/api/images/{type}/{key}", Summary: "Download an image"},
	{Operation: "deleteImage", Tag: "image-controller", Method: http.MethodDelete, Path: "/api/images/{type}/{key}{?force}", Summary: "Delete an image"},

	// OTA packages
	{Operation: "getOtaPackages", Tag: "ota-package-controller", Method: http.MethodGet, Path: "/api/otaPackages{?" + pageQuery + "}", Required: paged, Summary: "List OTA packages"},
	{Operation: "getOtaPackageInfoById", Tag: "ota-package-controller", Method: http.MethodGet, Path: "/api/otaPackage/info/{otaPackageId}", Summary: "Get OTA package info"},
	{Operation: "saveOtaPackageData", Tag: "ota-package-controller", Method: http.MethodPost, Path: "/api/otaPackage/{otaPackageId}{?checksum,checksumAlgorithm}", Form: []string{"file"}, Required: []string{"checksumAlgorithm", "file"}, Consumes: contentTypeMultipart, Summary: "Upload OTA package data"},
	{Operation: "deleteOtaPackage", Tag: "ota-package-controller", Method: http.MethodDelete, Path: "/api/otaPackage/{otaPackageId}", Summary: "Delete an OTA package"},

	// white labeling
	{Operation: "getWhiteLabelParams", Tag: "white-labeling-controller", Method: http.MethodGet, Path: "/api/whiteLabel/whiteLabelParams{?logoImageChecksum,faviconChecksum}", Summary: "Get white label parameters"},
	{Operation: "getLoginWhiteLabelParams", Tag: "white-labeling-controller", Method: http.MethodGet, Path: "/api/noauth/whiteLabel/loginWhiteLabelParams{?logoImageChecksum,faviconChecksum}", Summary: "Get login white label parameters"},
	{Operation: "saveWhiteLabelParams", Tag: "white-labeling-controller", Method: http.MethodPost, Path: "/api/whiteLabel/whiteLabelParams", Body: BodyRequired, Summary: "Save white label parameters"},

	// scheduler
	{Operation: "getSchedulerEvents", Tag: "scheduler-event-controller", Method: http.MethodGet, Path: "/api/schedulerEvents{?type}", Summary: "List scheduler events"},
	{Operation: "getSchedulerEventById", Tag: "scheduler-event-controller", Method: http.MethodGet, Path: "/api/schedulerEvent/{schedulerEventId}", Summary: "Get a scheduler event"},
	{Operation: "saveSchedulerEvent", Tag: "scheduler-event-controller", Method: http.MethodPost, Path: "/api/schedulerEvent", Body: BodyRequired, Summary: "Create or update a scheduler event"},
	{Operation: "deleteSchedulerEvent", Tag: "scheduler-event-controller", Method: http.MethodDelete, Path: "/api/schedulerEvent/{schedulerEventId}", Summary: "Delete a scheduler event"},

	// converters and integrations
	{Operation: "getConverters", Tag: "converter-controller", Method: http.MethodGet, Path: "/api/converters{?" + pageQuery + "}", Required: paged, Summary: "List data converters"},
	{Operation: "getConverterById", Tag: "converter-controller", Method: http.MethodGet, Path: "/api/converter/{converterId}", Summary: "Get a data converter"},
	{Operation: "saveConverter", Tag: "converter-controller", Method: http.MethodPost, Path: "/api/converter", Body: BodyRequired, Summary: "Create or update a data converter"},
	{Operation: "deleteConverter", Tag: "converter-controller", Method: http.MethodDelete, Path: "/api/converter/{converterId}", Summary: "Delete a data converter"},
	{Operation: "getIntegrations", Tag: "integration-controller", Method: http.MethodGet, Path: "/api/integrations{?" + pageQuery + "}", Required: paged, Summary: "List integrations"},
	{Operation: "getIntegrationById", Tag: "integration-controller", Method: http.MethodGet, Path: "/api/integration/{integrationId}", Summary: "Get an integration"},
	{Operation: "saveIntegration", Tag: "integration-controller", Method: http.MethodPost, Path: "/api/integration", Body: BodyRequired, Summary: "Create or update an integration"},
	{Operation: "deleteIntegration", Tag: "integration-controller", Method: http.MethodDelete, Path: "/api/integration/{integrationId}", Summary: "Delete an integration"},

	// RPC
	{Operation: "handleOneWayDeviceRPCRequest", Tag: "rpc-v2-controller", Method: http.MethodPost, Path: "/api/rpc/oneway/{deviceId}", Body: BodyRequired, Summary: "Send a one-way RPC to a device"},
	{Operation: "handleTwoWayDeviceRPCRequest", Tag: "rpc-v2-controller", Method: http.MethodPost, Path: "/api/rpc/twoway/{deviceId}", Body: BodyRequired, Summary: "Send a two-way RPC to a device"},

	// entity queries
	{Operation: "findEntityDataByQuery", Tag: "entity-query-controller", Method: http.MethodPost, Path: "/api/entitiesQuery/find", Body: BodyRequired, Summary: "Find entity data by query"},
	{Operation: "countEntitiesByQuery", Tag: "entity-query-controller", Method: http.MethodPost, Path: "/api/entitiesQuery/count", Body: BodyRequired, Summary: "Count entities by query"},
	{Operation: "findAlarmDataByQuery", Tag: "entity-query-controller", Method: http.MethodPost, Path: "/api/alarmsQuery/find", Body: BodyRequired, Summary: "Find alarm data by query"},

	// audit logs
	{Operation: "getAuditLogs", Tag: "audit-log-controller", Method: http.MethodGet, Path: "/api/audit/logs{?pageSize,page,textSearch,sortProperty,sortOrder,startTime,endTime,actionTypes}", Required: paged, Summary: "List audit logs"},
	{Operation: "getAuditLogsByEntityId", Tag: "audit-log-controller", Method: http.MethodGet, Path: "/api/audit/logs/entity/{entityType}/{entityId}{?pageSize,page,textSearch,sortProperty,sortOrder,startTime,endTime,actionTypes}", Required: paged, Summary: "List audit logs of an entity"},

	// admin
	{Operation: "getAdminSettings", Tag: "admin-controller", Method: http.MethodGet, Path: "/api/admin/settings/{key}{?systemByDefault}", Summary: "Get admin settings"},
	{Operation: "saveAdminSettings", Tag: "admin-controller", Method: http.MethodPost, Path: "/api/admin/settings", Body: BodyRequired, Summary: "Save admin settings"},
	{Operation: "checkUpdates", Tag: "admin-controller", Method: http.MethodGet, Path: "/api/admin/updates", Summary: "Check for platform updates"},
	{Operation: "getSystemInfo", Tag: "admin-controller", Method: http.MethodGet, Path: "/api/admin/systemInfo", Summary: "Get system info"},
	{Operation: "getHelpBaseUrl", Tag: "ui-settings-controller", Method: http.MethodGet, Path: "/api/uiSettings/helpBaseUrl", Summary: "Get the UI help base URL"},
}
